package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/models"
)

var defaultCatalog = models.Catalog{
	{ID: 108411, Name: "Linux Sunucu Kurulumu"},
	{ID: 108413, Name: "Linux Sunucu Konfigürasyonu"},
	{ID: 108415, Name: "Linux Sunucu Bakımı"},
	{ID: 108417, Name: "Linux Sunucu Arıza Çözme"},
	{ID: 108427, Name: "OS/Middleware Kurulumu"},
	{ID: 108429, Name: "OS/Middleware Konfigürasyonu"},
	{ID: 108431, Name: "OS/Middleware Bakımı"},
	{ID: 108455, Name: "OS/Middleware Arıza Çözme"},
	{ID: 108419, Name: "Sanallaştırma Kurulumu"},
	{ID: 108423, Name: "Sanallaştırma Bakımı"},
	{ID: 108425, Name: "Sanallaştırma Arıza Çözme"},
	{ID: 108433, Name: "DNS/LDAP/E-posta Kurulumu"},
	{ID: 108435, Name: "DNS/LDAP/E-posta Konfigürasyonu"},
	{ID: 108439, Name: "DNS/LDAP/E-posta Bakımı"},
	{ID: 108441, Name: "DNS/LDAP/E-posta Arıza Çözme"},
	{ID: 108443, Name: "LB Yapılandırma"},
	{ID: 108447, Name: "LB Arıza Çözme"},
}

// DefaultCatalog returns the built-in job list used when the user has no history
func DefaultCatalog() models.Catalog {
	out := make(models.Catalog, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

type taskRow struct {
	ID              int64   `json:"id"`
	JobDefinitionID int64   `json:"jobDefinitionId"`
	StatusID        string  `json:"statusId"`
	Description     string  `json:"description"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Hour            float64 `json:"hour"`
	JobDefinition   *struct {
		Name string `json:"name"`
	} `json:"jobDefinition"`
}

type taskPage struct {
	Value []taskRow `json:"value"`
}

// FetchJobCatalog derives the user's job list from their recent records.
// Jobs are deduplicated, long names truncated and the result sorted by id.
// An empty result is not an error.
func (c *Client) FetchJobCatalog(ctx context.Context) (models.Catalog, error) {
	creds, err := c.authorized()
	if err != nil {
		return nil, err
	}

	query := odataQuery(
		"$orderby", "startTime desc",
		"$top", "100",
		"$select", "jobDefinitionId",
		"$expand", "jobDefinition($select=name)",
	)
	var page taskPage
	if err := c.do(ctx, http.MethodGet, myTaskPath(creds.UserID)+"?"+query, creds.Token, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch job catalog: %w", err)
	}

	return catalogFromRows(page.Value), nil
}

// FetchHistory returns up to limit of the user's most recent records
func (c *Client) FetchHistory(ctx context.Context, limit int) ([]models.RemoteRecord, error) {
	creds, err := c.authorized()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	query := odataQuery(
		"$orderby", "startTime desc",
		"$select", "id,jobDefinitionId,statusId,description,startTime,endTime,hour,color",
		"$expand", "jobDefinition($select=name)",
		"$top", fmt.Sprintf("%d", limit),
	)
	var page taskPage
	if err := c.do(ctx, http.MethodGet, myTaskPath(creds.UserID)+"?"+query, creds.Token, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	records := make([]models.RemoteRecord, 0, len(page.Value))
	for _, row := range page.Value {
		record := models.RemoteRecord{
			ID:             row.ID,
			StartTimestamp: row.StartTime,
			EndTimestamp:   row.EndTime,
			StatusKind:     models.ParseStatusKind(row.StatusID),
			JobID:          row.JobDefinitionID,
			Description:    row.Description,
			Hour:           row.Hour,
		}
		if row.JobDefinition != nil {
			record.JobName = row.JobDefinition.Name
		}
		records = append(records, record)
	}
	return records, nil
}

func catalogFromRows(rows []taskRow) models.Catalog {
	seen := make(map[int64]bool)
	catalog := models.Catalog{}
	for _, row := range rows {
		if row.JobDefinitionID == 0 || row.JobDefinition == nil || seen[row.JobDefinitionID] {
			continue
		}
		seen[row.JobDefinitionID] = true
		catalog = append(catalog, models.JobDefinition{
			ID:   row.JobDefinitionID,
			Name: models.TruncateName(row.JobDefinition.Name, constants.MaxJobNameLength),
		})
	}
	sort.Slice(catalog, func(i, j int) bool {
		return catalog[i].ID < catalog[j].ID
	})
	return catalog
}

func myTaskPath(userID int64) string {
	return fmt.Sprintf("/UserJobDefinition/GetMyTask(userId=%d)", userID)
}

// odataQuery builds a query string from key/value pairs. OData system options
// keep their literal "$" and spaces are sent as %20.
func odataQuery(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		value := strings.ReplaceAll(url.QueryEscape(pairs[i+1]), "+", "%20")
		parts = append(parts, pairs[i]+"="+value)
	}
	return strings.Join(parts, "&")
}
