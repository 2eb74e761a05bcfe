package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"golang.org/x/time/rate"

	"supplyrisk/internal/domain"
	"supplyrisk/internal/ports"
)

// Client fetches ratings from a SecurityScorecard-style HTTP API.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

var _ ports.RatingProvider = (*Client)(nil)

type factorResponse struct {
	Factor string `json:"factor"`
	Score  int    `json:"score"`
}

type ratingResponse struct {
	Domain         string             `json:"domain"`
	Score          int                `json:"score"`
	Grade          string             `json:"grade"`
	LastUpdated    openapi_types.Date `json:"last_updated"`
	WeakestFactors []factorResponse   `json:"weakest_factors"`
}

func (c *Client) FetchRating(ctx context.Context, domainName string) (domain.SecurityRating, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.SecurityRating{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/companies/%s", c.baseURL, url.PathEscape(domainName)), nil)
	if err != nil {
		return domain.SecurityRating{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SecurityRating{}, fmt.Errorf("%w: %v", domain.ErrRatingUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return domain.SecurityRating{}, fmt.Errorf("%w: could not get rating for %s: %s", domain.ErrRatingUnavailable, domainName, res.Status)
	}

	var body ratingResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return domain.SecurityRating{}, fmt.Errorf("%w: decode rating: %v", domain.ErrRatingUnavailable, err)
	}

	out := domain.SecurityRating{
		Domain:      body.Domain,
		Score:       body.Score,
		Grade:       body.Grade,
		LastUpdated: body.LastUpdated.Time,
	}
	if out.Grade == "" {
		out.Grade = domain.GradeFor(out.Score)
	}
	for _, f := range body.WeakestFactors {
		out.WeakestFactors = append(out.WeakestFactors, domain.Factor{Name: f.Factor, Score: f.Score})
	}
	return out, nil
}
