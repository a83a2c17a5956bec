package data

import (
	"testing"

	"github.com/anaeze/critica/internal/validator"
)

func TestFiltersSort(t *testing.T) {
	f := Filters{Sort: "-year", SortSafeList: []string{"name", "year", "-name", "-year"}}
	if got := f.SortColumn(); got != "year" {
		t.Errorf("SortColumn() = %q, want %q", got, "year")
	}
	if got := f.SortDirection(); got != "DESC" {
		t.Errorf("SortDirection() = %q, want %q", got, "DESC")
	}

	f.Sort = "name"
	if got := f.SortDirection(); got != "ASC" {
		t.Errorf("SortDirection() = %q, want %q", got, "ASC")
	}

	t.Run("unsafe sort panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic for an unlisted sort value")
			}
		}()
		f := Filters{Sort: "id; DROP TABLE users", SortSafeList: []string{"name"}}
		f.SortColumn()
	})
}

func TestFiltersPagination(t *testing.T) {
	f := Filters{Page: 3, PageSize: 20}
	if f.Limit() != 20 {
		t.Errorf("Limit() = %d, want 20", f.Limit())
	}
	if f.Offset() != 40 {
		t.Errorf("Offset() = %d, want 40", f.Offset())
	}
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name  string
		f     Filters
		valid bool
	}{
		{"valid", Filters{Page: 1, PageSize: 20, Sort: "name", SortSafeList: []string{"name"}}, true},
		{"zero page", Filters{Page: 0, PageSize: 20, Sort: "name", SortSafeList: []string{"name"}}, false},
		{"oversized page size", Filters{Page: 1, PageSize: 101, Sort: "name", SortSafeList: []string{"name"}}, false},
		{"unlisted sort", Filters{Page: 1, PageSize: 20, Sort: "email", SortSafeList: []string{"name"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(v, tt.f)
			if v.Valid() != tt.valid {
				t.Errorf("valid = %v, want %v (errors: %v)", v.Valid(), tt.valid, v.Errors)
			}
		})
	}
}

func TestCalculateMetadata(t *testing.T) {
	t.Run("empty result set", func(t *testing.T) {
		if m := CalculateMetadata(0, 1, 20); m != (Metadata{}) {
			t.Errorf("expected empty metadata; got %+v", m)
		}
	})

	t.Run("partial last page", func(t *testing.T) {
		m := CalculateMetadata(101, 2, 20)
		if m.LastPage != 6 {
			t.Errorf("LastPage = %d, want 6", m.LastPage)
		}
		if m.CurrentPage != 2 || m.FirstPage != 1 || m.TotalRecords != 101 {
			t.Errorf("unexpected metadata: %+v", m)
		}
	})
}
