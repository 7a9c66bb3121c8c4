package domain

import "testing"

func TestListParams_Normalize(t *testing.T) {
	allowed := []string{"id", "name"}
	tests := []struct {
		name string
		in   ListParams
		want ListParams
	}{
		{"defaults", ListParams{}, ListParams{Page: 1, Limit: 25, OrderBy: "id", OrderDir: "DESC"}},
		{"caps limit", ListParams{Page: 3, Limit: 5000, OrderBy: "name", OrderDir: "asc"}, ListParams{Page: 3, Limit: 1000, OrderBy: "name", OrderDir: "ASC"}},
		{"unknown order column", ListParams{Page: 1, Limit: 10, OrderBy: "password; drop", OrderDir: "sideways"}, ListParams{Page: 1, Limit: 10, OrderBy: "id", OrderDir: "DESC"}},
		{"negative page", ListParams{Page: -4, Limit: -1}, ListParams{Page: 1, Limit: 25, OrderBy: "id", OrderDir: "DESC"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(allowed, "id", "DESC"); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		p     ListParams
		want  PageMeta
	}{
		{"empty", 0, ListParams{Page: 1, Limit: 25}, PageMeta{Total: 0, Page: 1, PerPage: 25}},
		{"first page", 60, ListParams{Page: 1, Limit: 25}, PageMeta{Total: 60, Page: 1, PerPage: 25, TotalPages: 3, From: 1, To: 25}},
		{"last partial page", 60, ListParams{Page: 3, Limit: 25}, PageMeta{Total: 60, Page: 3, PerPage: 25, TotalPages: 3, From: 51, To: 60}},
		{"past the end", 10, ListParams{Page: 5, Limit: 25}, PageMeta{Total: 10, Page: 5, PerPage: 25, TotalPages: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPageMeta(tt.total, tt.p); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultEntitySettings_ReturnsCopy(t *testing.T) {
	a := DefaultEntitySettings()
	a["show_reviews"] = false
	if b := DefaultEntitySettings(); b["show_reviews"] != true {
		t.Fatal("defaults must not be shared between callers")
	}
}
