package render

import "html/template"

var baseStyle = `
body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; color: #333; }
.header { text-align: center; border-bottom: 2px solid #2563eb; padding-bottom: 20px; margin-bottom: 30px; }
.title { font-size: 24px; font-weight: bold; color: #1e40af; }
.alert { background-color: #fef2f2; border-left: 4px solid #dc2626; padding: 15px; margin: 20px 0; }
.section { margin-bottom: 25px; }
.section h2 { font-size: 18px; color: #374151; border-bottom: 1px solid #e5e7eb; padding-bottom: 5px; }
.field { margin-bottom: 10px; }
.field span { font-weight: 600; color: #4b5563; }
.amount { font-size: 26px; font-weight: bold; color: #dc2626; text-align: center; }
.footer { margin-top: 50px; border-top: 1px solid #e5e7eb; padding-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
`

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><style>` + baseStyle + `</style></head>
<body>
<div class="header">
  <div class="title">Administration Douanière de Nouvelle-Calédonie</div>
  <div>Système de Gestion des Actes Administratifs</div>
</div>
<div class="section">
  <h2>Informations du Document</h2>
  <div class="field"><span>Titre:</span> {{.Document.Title}}</div>
  <div class="field"><span>Type:</span> {{.Document.DocumentType}}</div>
  <div class="field"><span>Statut:</span> {{.Document.Status}}</div>
  <div class="field"><span>Créé par:</span> {{.Document.CreatedByName}}</div>
  <div class="field"><span>Date de création:</span> {{.Document.CreatedAt.Format "02/01/2006 à 15:04"}}</div>
</div>
<div class="section">
  <h2>Contenu du Document</h2>
  {{$content := .Document.Content}}
  {{range .Template.Fields}}
  <div class="field"><span>{{.Label}}:</span> {{with index $content .Name}}{{.}}{{else}}Non renseigné{{end}}</div>
  {{end}}
</div>
{{if .Document.DeclarationData}}
<div class="section">
  <h2>Données Sydonia</h2>
  {{range $k, $v := .Document.DeclarationData}}
  <div class="field"><span>{{$k}}:</span> {{$v}}</div>
  {{end}}
</div>
{{end}}
<div class="section">
  <h2>Historique des Actions</h2>
  {{range .Document.History}}
  <div class="field"><strong>{{.Action}}</strong> par {{.ActorName}} le {{.CreatedAt.Format "02/01/2006 à 15:04"}}</div>
  {{end}}
</div>
<div class="footer">
  <p>Document généré le {{.GeneratedAt.Format "02/01/2006 à 15:04"}} UTC</p>
  <p>Administration Douanière de Nouvelle-Calédonie</p>
</div>
</body></html>`))

var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><style>` + baseStyle + `</style></head>
<body>
<div class="header">
  <div class="title">CERTIFICAT DE VISITE</div>
  <div>Administration Douanière de Nouvelle-Calédonie</div>
</div>
<div class="alert">
  <strong>AVIS DE NON-CONFORMITÉ</strong><br>
  La déclaration en douane ci-dessous présente des non-conformités qui nécessitent une régularisation.
</div>
<div class="section">
  <h2>Informations de la Déclaration</h2>
  <div class="field"><span>N° Déclaration:</span> {{.Declaration.DeclarationID}}</div>
  <div class="field"><span>Importateur:</span> {{.Declaration.ImporterName}}</div>
  <div class="field"><span>Adresse:</span> {{.Declaration.ImporterAddress}}</div>
  <div class="field"><span>Description marchandises:</span> {{.Declaration.GoodsDescription}}</div>
  <div class="field"><span>Pays d'origine:</span> {{.Declaration.OriginCountry}}</div>
  <div class="field"><span>Valeur CFR:</span> {{printf "%.0f" .Declaration.ValueCFR}} XPF</div>
</div>
<div class="section">
  <h2>Non-Conformité Constatée</h2>
  <div class="field"><span>Type:</span> {{.Control.NonComplianceType}}</div>
  <div class="field"><span>Détails:</span> {{.Control.NonComplianceDetails}}</div>
  <div class="field"><span>Réglementation applicable:</span> {{.Control.ApplicableRegulation}}</div>
</div>
<div class="section">
  <h2>Impact Fiscal</h2>
  <div class="amount">{{printf "%.0f" .FiscalImpact}} XPF</div>
</div>
<div class="section">
  <h2>Validation du Déclarant</h2>
  <p>Je soussigné(e), représentant de <strong>{{.Declaration.ImporterName}}</strong>,
  reconnais avoir pris connaissance des non-conformités constatées et accepte
  les mesures correctives proposées.</p>
</div>
<div class="footer">
  <p>Certificat généré le {{.GeneratedAt.Format "02/01/2006 à 15:04"}} UTC</p>
  <p>Bureau de {{.Declaration.CustomsOffice}} - Contrôle effectué par {{.Control.ControlOfficerName}}</p>
</div>
</body></html>`))

var paymentNoticeTmpl = template.Must(template.New("payment_notice").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><style>` + baseStyle + `</style></head>
<body>
<div class="header">
  <div class="title">AVIS DE PAIEMENT</div>
  <div>Administration Douanière de Nouvelle-Calédonie</div>
</div>
<div class="section">
  <h2>Montant à Régler</h2>
  <div class="amount">{{printf "%.0f" .Fine.Amount}} XPF</div>
</div>
<div class="section">
  <h2>Informations de l'Amende</h2>
  <div class="field"><span>N° Amende LO:</span> {{with .Fine.LONumber}}{{.}}{{else}}En attente{{end}}</div>
  <div class="field"><span>N° Déclaration:</span> {{.Declaration.DeclarationID}}</div>
  <div class="field"><span>Code réglementation:</span> {{.Fine.RegulationCode}}</div>
  <div class="field"><span>Date d'émission:</span> {{.Fine.CreatedAt.Format "02/01/2006"}}</div>
</div>
<div class="section">
  <h2>Informations du Redevable</h2>
  <div class="field"><span>Importateur:</span> {{.Declaration.ImporterName}}</div>
  <div class="field"><span>Adresse:</span> {{.Declaration.ImporterAddress}}</div>
</div>
<div class="section">
  <h2>Modalités de Paiement</h2>
  <p><strong>Délai de paiement:</strong> 30 jours à compter de la date d'émission</p>
</div>
<div class="footer">
  <p>Avis généré le {{.GeneratedAt.Format "02/01/2006 à 15:04"}} UTC</p>
  <p>Administration Douanière de Nouvelle-Calédonie</p>
</div>
</body></html>`))
