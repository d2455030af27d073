// Command main is a development CLI that pages through the posts listing
// the way the site's infinite scroll does, printing each page as it loads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"atelier/internal/feed"
	"atelier/internal/models"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8480", "Base URL of the API server")
	category := flag.String("category", "", "Category filter (portfolio, food, drawing or life)")
	sort := flag.String("sort", "latest", "Sort order (latest or popular)")
	search := flag.String("q", "", "Search query")
	pageSize := flag.Int("page-size", feed.DefaultPageSize, "Posts per page")
	flag.Parse()

	filter := models.PostFilter{Sort: models.ParseSort(*sort), Search: *search}
	switch *category {
	case "":
	case "life":
		filter.Categories = models.LifeCategories()
	default:
		c, ok := models.ParseCategory(*category)
		if !ok {
			log.Fatalf("Unknown category %q", *category)
		}
		filter.Categories = []models.Category{c}
	}

	client := &http.Client{Timeout: 10 * time.Second}
	f := feed.New(apiFetcher(client, *baseURL), *pageSize)
	f.SetFilter(filter)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	page := 1
	loaded, err := f.Load(ctx)
	for ; loaded && err == nil; page++ {
		printPage(page, f)
		if !f.HasMore() {
			break
		}
		loaded, err = f.LoadMore(ctx)
	}
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	fmt.Printf("\nDone: %d posts of %d total.\n", len(f.Posts()), f.Total())
}

func printPage(page int, f *feed.Feed) {
	posts := f.Posts()
	start := (page - 1) * f.PageSize()
	if start > len(posts) {
		start = len(posts)
	}
	fmt.Printf("--- page %d ---\n", page)
	for _, p := range posts[start:] {
		fmt.Printf("%5d  %-9s  %6d views  %s\n", p.ID, p.Category, p.ViewCount, p.Title)
	}
}

// apiFetcher adapts the public posts endpoints to the feed.Fetcher contract.
func apiFetcher(client *http.Client, baseURL string) feed.Fetcher {
	return func(ctx context.Context, f models.PostFilter, limit, offset int) (*feed.Page, error) {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
		path := "/api/posts"
		if f.Search != "" {
			path = "/api/posts/search"
			q.Set("q", f.Search)
		}
		if f.Sort != "" {
			q.Set("sort", string(f.Sort))
		}
		switch len(f.Categories) {
		case 0:
		case 1:
			q.Set("category", string(f.Categories[0]))
		default:
			q.Set("category", "life")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}

		var body struct {
			Posts      []*models.Post `json:"posts"`
			TotalCount int64          `json:"total_count"`
			HasMore    bool           `json:"has_more"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, err
		}
		return &feed.Page{Posts: body.Posts, TotalCount: body.TotalCount, HasMore: body.HasMore}, nil
	}
}
