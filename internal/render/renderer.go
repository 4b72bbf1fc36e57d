// Package render produces distributable artifacts (certificate of visit,
// payment notice, filled document) for workflow transitions. The workflow
// decides when to render; this package decides how.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Renderer interface {
	RenderDocument(ctx context.Context, doc *models.Document, tpl *models.DocumentTemplate) (string, error)
	RenderCertificate(ctx context.Context, control *models.Control, decl *models.Declaration) (string, error)
	RenderPaymentNotice(ctx context.Context, fine *models.CustomsFine, decl *models.Declaration) (string, error)
}

// HTMLRenderer writes rendered HTML artifacts into a directory and returns
// the file name as the artifact reference.
type HTMLRenderer struct {
	dir string
	log *zap.Logger
}

func NewHTMLRenderer(dir string, log *zap.Logger) (*HTMLRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts dir: %w", err)
	}
	return &HTMLRenderer{dir: dir, log: log}, nil
}

// Resolve maps an artifact reference back to a path inside the artifacts
// directory. References containing path separators are rejected.
func (r *HTMLRenderer) Resolve(ref string) (string, error) {
	if ref == "" || filepath.Base(ref) != ref {
		return "", fmt.Errorf("%w: bad artifact reference", apperr.ErrInvalidInput)
	}
	return filepath.Join(r.dir, ref), nil
}

func (r *HTMLRenderer) RenderDocument(_ context.Context, doc *models.Document, tpl *models.DocumentTemplate) (string, error) {
	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, map[string]any{
		"Document":    doc,
		"Template":    tpl,
		"GeneratedAt": time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: rendering document: %v", apperr.ErrExternalService, err)
	}
	return r.write("document", buf.Bytes())
}

func (r *HTMLRenderer) RenderCertificate(_ context.Context, control *models.Control, decl *models.Declaration) (string, error) {
	var fiscalImpact float64
	if control.FiscalImpact != nil {
		fiscalImpact = *control.FiscalImpact
	}
	var buf bytes.Buffer
	err := certificateTmpl.Execute(&buf, map[string]any{
		"Control":      control,
		"Declaration":  decl,
		"FiscalImpact": fiscalImpact,
		"GeneratedAt":  time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: rendering certificate: %v", apperr.ErrExternalService, err)
	}
	return r.write("certificat_visite", buf.Bytes())
}

func (r *HTMLRenderer) RenderPaymentNotice(_ context.Context, fine *models.CustomsFine, decl *models.Declaration) (string, error) {
	var buf bytes.Buffer
	err := paymentNoticeTmpl.Execute(&buf, map[string]any{
		"Fine":        fine,
		"Declaration": decl,
		"GeneratedAt": time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: rendering payment notice: %v", apperr.ErrExternalService, err)
	}
	return r.write("avis_paiement", buf.Bytes())
}

func (r *HTMLRenderer) write(prefix string, data []byte) (string, error) {
	ref := fmt.Sprintf("%s_%s.html", prefix, uuid.New().String())
	if err := os.WriteFile(filepath.Join(r.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing artifact: %v", apperr.ErrExternalService, err)
	}
	r.log.Debug("artifact rendered", zap.String("ref", ref))
	return ref, nil
}
