package render

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRenderer(t *testing.T) *HTMLRenderer {
	t.Helper()
	r, err := NewHTMLRenderer(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}
	return r
}

func testDeclaration() *models.Declaration {
	return &models.Declaration{
		ID:               uuid.New(),
		DeclarationID:    "IM-2024-00042",
		ImporterName:     "SARL Import Export NC",
		ImporterAddress:  "123 Rue de la Paix, Nouméa",
		GoodsDescription: "Matériel informatique",
		OriginCountry:    "France",
		ValueCFR:         45000,
		CustomsRegime:    "Importation définitive",
		DeclarationDate:  "2024-01-15",
		CustomsOffice:    "Nouméa-Port",
		CreatedAt:        time.Now().UTC(),
	}
}

func readArtifact(t *testing.T, r *HTMLRenderer, ref string) string {
	t.Helper()
	path, err := r.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", ref, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	return string(data)
}

func TestRenderCertificate(t *testing.T) {
	r := newTestRenderer(t)

	ncType := "value"
	details := "Valeur déclarée inférieure à la valeur transactionnelle"
	impact := 50000.0
	regulation := "CD-182"
	control := &models.Control{
		ID:                   uuid.New(),
		DeclarationID:        "IM-2024-00042",
		ControlOfficerName:   "Marie Leroy",
		Status:               models.ControlStatusNonCompliant,
		NonComplianceType:    &ncType,
		NonComplianceDetails: &details,
		FiscalImpact:         &impact,
		ApplicableRegulation: &regulation,
	}

	ref, err := r.RenderCertificate(context.Background(), control, testDeclaration())
	if err != nil {
		t.Fatalf("RenderCertificate: %v", err)
	}
	if !strings.HasPrefix(ref, "certificat_visite_") || !strings.HasSuffix(ref, ".html") {
		t.Errorf("unexpected artifact reference %q", ref)
	}

	html := readArtifact(t, r, ref)
	for _, want := range []string{"CERTIFICAT DE VISITE", "SARL Import Export NC", "Marie Leroy", "CD-182", "50000"} {
		if !strings.Contains(html, want) {
			t.Errorf("certificate missing %q", want)
		}
	}
}

func TestRenderPaymentNotice(t *testing.T) {
	r := newTestRenderer(t)

	lo := "LO20240315AB12CD"
	fine := &models.CustomsFine{
		ID:             uuid.New(),
		ControlID:      uuid.New(),
		DeclarationID:  "IM-2024-00042",
		Amount:         50000,
		RegulationCode: "CD-182",
		Status:         models.FineStatusIssued,
		LONumber:       &lo,
		CreatedAt:      time.Now().UTC(),
	}

	ref, err := r.RenderPaymentNotice(context.Background(), fine, testDeclaration())
	if err != nil {
		t.Fatalf("RenderPaymentNotice: %v", err)
	}

	html := readArtifact(t, r, ref)
	for _, want := range []string{"AVIS DE PAIEMENT", lo, "CD-182", "SARL Import Export NC"} {
		if !strings.Contains(html, want) {
			t.Errorf("payment notice missing %q", want)
		}
	}
}

func TestRenderDocument(t *testing.T) {
	r := newTestRenderer(t)

	tpl := &models.DocumentTemplate{
		ID:           uuid.New(),
		Name:         "Rapport de contrôle douanier",
		DocumentType: "rapport_controle",
		Fields: []models.TemplateField{
			{Name: "observations", Type: "textarea", Label: "Observations"},
		},
	}
	doc := &models.Document{
		ID:            uuid.New(),
		Title:         "Contrôle conteneur 42",
		DocumentType:  "rapport_controle",
		Status:        models.DocumentStatusDraft,
		TemplateID:    tpl.ID,
		Content:       map[string]any{"observations": "RAS"},
		CreatedByName: "Jean Dupont",
	}

	ref, err := r.RenderDocument(context.Background(), doc, tpl)
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	html := readArtifact(t, r, ref)
	for _, want := range []string{"Contrôle conteneur 42", "Jean Dupont"} {
		if !strings.Contains(html, want) {
			t.Errorf("document artifact missing %q", want)
		}
	}
}

func TestResolveRejectsPathTraversal(t *testing.T) {
	r := newTestRenderer(t)

	for _, ref := range []string{"", "../secret.html", "a/b.html", "/etc/passwd"} {
		if _, err := r.Resolve(ref); err == nil {
			t.Errorf("Resolve(%q) accepted a bad reference", ref)
		}
	}
}
