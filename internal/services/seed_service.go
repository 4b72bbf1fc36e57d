package services

import (
	"context"
	"errors"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"go.uber.org/zap"
)

// SeedService installs the reference data a fresh deployment needs: the
// document type registry, the default templates and the regulation catalogue
// the fine workflow quotes. Seeding is idempotent, existing data is left
// alone.
type SeedService struct {
	templates   TemplateStore
	docTypes    DocTypeStore
	regulations RegulationStore
	log         *zap.Logger
}

func NewSeedService(templates TemplateStore, docTypes DocTypeStore, regulations RegulationStore, log *zap.Logger) *SeedService {
	return &SeedService{templates: templates, docTypes: docTypes, regulations: regulations, log: log}
}

func (s *SeedService) Run(ctx context.Context) error {
	if err := s.SeedTemplates(ctx); err != nil {
		return err
	}
	return s.SeedRegulations(ctx)
}

// SeedTemplates installs the default templates and the document type codes
// they reference.
func (s *SeedService) SeedTemplates(ctx context.Context) error {
	for _, dt := range defaultDocumentTypes() {
		dt := dt
		_, err := s.docTypes.GetByCode(ctx, dt.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if err := s.docTypes.Create(ctx, &dt); err != nil {
			return err
		}
	}

	n, err := s.templates.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug("templates already seeded", zap.Int("count", n))
		return nil
	}

	for _, t := range defaultTemplates() {
		t := t
		if err := s.templates.Create(ctx, &t); err != nil {
			return err
		}
	}
	s.log.Info("default templates installed", zap.Int("count", len(defaultTemplates())))
	return nil
}

func (s *SeedService) SeedRegulations(ctx context.Context) error {
	n, err := s.regulations.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug("regulations already seeded", zap.Int("count", n))
		return nil
	}

	for _, r := range defaultRegulations() {
		r := r
		if err := s.regulations.Create(ctx, &r); err != nil {
			return err
		}
	}
	s.log.Info("regulation catalogue installed", zap.Int("count", len(defaultRegulations())))
	return nil
}

func defaultDocumentTypes() []models.DocumentType {
	return []models.DocumentType{
		{
			Name:        "Rapport de contrôle",
			Code:        "rapport_controle",
			Description: "Compte rendu d'un contrôle douanier sur une déclaration d'importation.",
		},
		{
			Name:        "Demande de renseignements",
			Code:        "demande_renseignements",
			Description: "Demande de renseignements complémentaires adressée au déclarant.",
		},
		{
			Name:        "Note de service",
			Code:        "note_service",
			Description: "Note interne de l'administration douanière.",
		},
	}
}

func defaultTemplates() []models.DocumentTemplate {
	return []models.DocumentTemplate{
		{
			Name:         "Rapport de contrôle douanier",
			DocumentType: "rapport_controle",
			Fields: []models.TemplateField{
				{Name: "declaration_id", Type: "text", Required: true, Label: "Numéro de déclaration"},
				{Name: "date_controle", Type: "date", Required: true, Label: "Date du contrôle"},
				{Name: "lieu_controle", Type: "text", Required: true, Label: "Lieu du contrôle"},
				{Name: "observations", Type: "textarea", Required: false, Label: "Observations"},
				{Name: "resultat", Type: "select", Required: true, Label: "Résultat",
					Options: []string{"conforme", "non conforme", "à approfondir"}},
			},
			Checklist: []string{
				"Identité de l'importateur vérifiée",
				"Documents d'accompagnement présents",
				"Marchandises conformes à la déclaration",
			},
		},
		{
			Name:         "Demande de renseignements complémentaires",
			DocumentType: "demande_renseignements",
			Fields: []models.TemplateField{
				{Name: "declaration_id", Type: "text", Required: true, Label: "Numéro de déclaration"},
				{Name: "destinataire", Type: "text", Required: true, Label: "Destinataire"},
				{Name: "objet", Type: "text", Required: true, Label: "Objet de la demande"},
				{Name: "delai_reponse", Type: "number", Required: false, Label: "Délai de réponse (jours)"},
				{Name: "details", Type: "textarea", Required: true, Label: "Renseignements demandés"},
			},
			Checklist: []string{
				"Références de la déclaration exactes",
				"Base réglementaire citée",
			},
		},
		{
			Name:         "Note de service",
			DocumentType: "note_service",
			Fields: []models.TemplateField{
				{Name: "objet", Type: "text", Required: true, Label: "Objet"},
				{Name: "date_effet", Type: "date", Required: false, Label: "Date d'effet"},
				{Name: "contenu", Type: "textarea", Required: true, Label: "Contenu"},
			},
			Checklist: nil,
		},
	}
}

func defaultRegulations() []models.Regulation {
	return []models.Regulation{
		{
			Code:        "CD-215",
			Title:       "Fausse déclaration d'espèce",
			Description: "Déclaration d'une espèce tarifaire différente de la marchandise réellement importée.",
			Category:    "species",
			FineRate:    1.0,
		},
		{
			Code:        "CD-230",
			Title:       "Fausse déclaration d'origine",
			Description: "Déclaration d'une origine inexacte en vue d'éluder des droits ou prohibitions.",
			Category:    "origin",
			FineRate:    1.5,
		},
		{
			Code:        "CD-182",
			Title:       "Fausse déclaration de valeur",
			Description: "Minoration de la valeur en douane déclarée par rapport à la valeur transactionnelle.",
			Category:    "value",
			FineRate:    2.0,
		},
	}
}
