// Package sydonia wraps the external import-declaration source. The workflow
// only ever sees the Client interface, so tests and offline deployments can
// swap in the static stub.
package sydonia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client interface {
	FetchDeclaration(ctx context.Context, declarationID string) (*models.Declaration, error)
}

// HTTPClient talks to the Sydonia internal API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *HTTPClient) FetchDeclaration(ctx context.Context, declarationID string) (*models.Declaration, error) {
	url := fmt.Sprintf("%s/declarations/%s", c.baseURL, declarationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sydonia unavailable: %v", apperr.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: declaration %s", apperr.ErrNotFound, declarationID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: sydonia returned %d: %s", apperr.ErrExternalService, resp.StatusCode, string(body))
	}

	var payload struct {
		Data models.Declaration `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding sydonia response: %v", apperr.ErrExternalService, err)
	}

	d := payload.Data
	d.ID = uuid.New()
	d.DeclarationID = declarationID
	d.CreatedAt = time.Now().UTC()
	return &d, nil
}

// StaticClient serves canned declaration data. Used when no Sydonia endpoint
// is configured and as the test double.
type StaticClient struct{}

func NewStaticClient() *StaticClient {
	return &StaticClient{}
}

func (c *StaticClient) FetchDeclaration(_ context.Context, declarationID string) (*models.Declaration, error) {
	tariff := "8471.30.00"
	weight := 250.5
	quantity := 10
	return &models.Declaration{
		ID:               uuid.New(),
		DeclarationID:    declarationID,
		ImporterName:     "SARL Import Export NC",
		ImporterAddress:  "123 Rue de la Paix, Nouméa",
		GoodsDescription: "Matériel informatique",
		OriginCountry:    "France",
		ValueCFR:         45000,
		CustomsRegime:    "Importation définitive",
		DeclarationDate:  "2024-01-15",
		CustomsOffice:    "Nouméa-Port",
		TariffCode:       &tariff,
		Weight:           &weight,
		Quantity:         &quantity,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
