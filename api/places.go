package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultPlacesBaseURL = "https://api.foursquare.com/v3/places/search"
	placesCacheSize      = 256
	placesRadiusMeters   = 5000
	placesDefaultLimit   = 10
)

// Place is one nearby point of interest for the expansion-analysis map.
type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Address  string  `json:"address,omitempty"`
	Distance int     `json:"distance,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// PlacesClient wraps the places provider behind a bounded LRU cache. Nearby
// queries repeat heavily while a user pans the map, and provider calls are
// metered, so responses are cached by rounded coordinates + query. The cache
// is size-bounded; eviction handles churn across tenants.
type PlacesClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *lru.Cache[string, []Place]
}

func NewPlacesClient() *PlacesClient {
	cache, _ := lru.New[string, []Place](placesCacheSize)
	baseURL := os.Getenv("PLACES_API_URL")
	if baseURL == "" {
		baseURL = defaultPlacesBaseURL
	}
	return &PlacesClient{
		apiKey:  os.Getenv("PLACES_API_KEY"),
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

// cacheKey rounds coordinates to ~100m so adjacent map pans hit the same
// entry.
func cacheKey(lat, lng float64, query string, limit int) string {
	return fmt.Sprintf("%.3f:%.3f:%s:%d", lat, lng, query, limit)
}

var errPlacesNotConfigured = errors.New("places provider not configured")

// Nearby returns points of interest around a coordinate, serving repeats
// from the cache.
func (p *PlacesClient) Nearby(ctx context.Context, lat, lng float64, query string, limit int) ([]Place, error) {
	if p.apiKey == "" {
		return nil, errPlacesNotConfigured
	}
	if limit <= 0 {
		limit = placesDefaultLimit
	}

	key := cacheKey(lat, lng, query, limit)
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	places, err := p.fetch(ctx, lat, lng, query, limit)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, places)
	return places, nil
}

// fsqResponse mirrors the provider's search payload shape.
type fsqResponse struct {
	Results []struct {
		FsqID      string `json:"fsq_id"`
		Name       string `json:"name"`
		Distance   int    `json:"distance"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"location"`
		Geocodes struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		} `json:"geocodes"`
	} `json:"results"`
}

func (p *PlacesClient) fetch(ctx context.Context, lat, lng float64, query string, limit int) ([]Place, error) {
	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", strconv.Itoa(placesRadiusMeters))
	params.Set("limit", strconv.Itoa(limit))
	if query != "" {
		params.Set("query", query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places provider returned %d", resp.StatusCode)
	}

	var payload fsqResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		place := Place{
			ID:       r.FsqID,
			Name:     r.Name,
			Address:  r.Location.FormattedAddress,
			Distance: r.Distance,
			Lat:      r.Geocodes.Main.Latitude,
			Lng:      r.Geocodes.Main.Longitude,
		}
		if len(r.Categories) > 0 {
			place.Category = r.Categories[0].Name
		}
		places = append(places, place)
	}
	return places, nil
}

// NearbyPlaces serves GET /map/places?lat=..&lng=..&query=..&limit=..
func (a *API) NearbyPlaces(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat is required"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng is required"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	places, err := a.Places.Nearby(c.Request.Context(), lat, lng, c.Query("query"), limit)
	if err != nil {
		if errors.Is(err, errPlacesNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, places)
}
