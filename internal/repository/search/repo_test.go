package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
)

func TestByTitle_BuildsBoostedBody(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotIndex string
	var gotBody map[string]any
	ms.searchFn = func(_ context.Context, index string, body map[string]any) (*db.SearchResult, error) {
		gotIndex, gotBody = index, body
		return &db.SearchResult{}, nil
	}

	if _, err := repo.ByTitle(context.Background(), "люстра", 10, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotIndex != "products" {
		t.Errorf("unexpected index: %s", gotIndex)
	}
	if gotBody["size"] != 10 || gotBody["from"] != 20 {
		t.Errorf("pagination not applied: size=%v from=%v", gotBody["size"], gotBody["from"])
	}
	encoded, _ := json.Marshal(gotBody["query"])
	if !json.Valid(encoded) {
		t.Fatal("query not marshalable")
	}
	body := string(encoded)
	if !strings.Contains(body, "multi_match") || !strings.Contains(body, "title^3") {
		t.Errorf("expected boosted multi_match over title fields, got %s", body)
	}
	if strings.Contains(body, "attributes") {
		t.Errorf("title mode must not touch attribute content: %s", body)
	}
}

func TestByAttributes_UsesNestedQuery(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotBody map[string]any
	ms.searchFn = func(_ context.Context, _ string, body map[string]any) (*db.SearchResult, error) {
		gotBody = body
		return &db.SearchResult{}, nil
	}

	if _, err := repo.ByAttributes(context.Background(), "белый", 5, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, _ := json.Marshal(gotBody["query"])
	body := string(encoded)
	if !strings.Contains(body, "nested") || !strings.Contains(body, "inner_hits") {
		t.Errorf("expected nested query with inner hits, got %s", body)
	}
	if strings.Contains(body, "title") {
		t.Errorf("attribute mode must not touch title fields: %s", body)
	}
}

func TestRun_DecodesHitsAndInnerHits(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ string, _ map[string]any) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total:      2,
			TookMillis: 7,
			Hits: []db.Hit{
				{
					ID:     "doc-1",
					Score:  2.5,
					Source: json.RawMessage(`{"id":"doc-1","title":"Люстра"}`),
					MatchedAttributes: []db.AttributePair{
						{Name: "Цвет", Value: "белый"},
					},
				},
				{
					ID:     "doc-2",
					Source: json.RawMessage(`{"title":"Бра"}`),
				},
			},
		}, nil
	}

	res, err := repo.ByAttributes(context.Background(), "белый", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || res.TookMillis != 7 {
		t.Errorf("unexpected envelope: %+v", res)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[1].ID != "doc-2" {
		t.Errorf("id not backfilled from hit: %+v", res.Items[1])
	}
	matched := res.MatchedAttributes["doc-1"]
	if len(matched) != 1 || matched[0].Name != "Цвет" {
		t.Errorf("unexpected matched attributes: %+v", res.MatchedAttributes)
	}
	if _, ok := res.MatchedAttributes["doc-2"]; ok {
		t.Error("doc without inner hits must not appear in matched attributes")
	}
}

func TestRun_SkipsUndecodableHit(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ string, _ map[string]any) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 2,
			Hits: []db.Hit{
				{ID: "bad", Source: json.RawMessage(`{not json`)},
				{ID: "doc-1", Source: json.RawMessage(`{"id":"doc-1"}`)},
			},
		}, nil
	}

	res, err := repo.All(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "doc-1" {
		t.Errorf("expected the bad hit skipped, got %+v", res.Items)
	}
}

func TestRun_EngineUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ string, _ map[string]any) (*db.SearchResult, error) {
		return nil, db.ErrNotConnected
	}

	_, err := repo.ByTitle(context.Background(), "x", 10, 0)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

