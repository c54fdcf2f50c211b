package sparse

import (
	"reflect"
	"testing"
)

func TestSortEntriesByIndex(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    []Entry
	}{
		{
			"Normal",
			[]Entry{{3, 0.5}, {0, 1.5}, {7, -2}, {1, 4}},
			[]Entry{{0, 1.5}, {1, 4}, {3, 0.5}, {7, -2}},
		},
		{"Sorted", []Entry{{0, 1}, {2, 2}}, []Entry{{0, 1}, {2, 2}}},
		{"Empty", []Entry{}, []Entry{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SortEntriesByIndex(tt.entries); !reflect.DeepEqual(got,
				tt.want) {
				t.Errorf("SortEntriesByIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}
