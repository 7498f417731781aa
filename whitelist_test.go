package autoxliff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsAllowed(t *testing.T) {
	whitelist := []string{"Acme.Shop", "Acme.Blog"}

	if !IsAllowed("Acme.Blog", whitelist) {
		t.Error("expected Acme.Blog to be allowed")
	}
	if IsAllowed("Other.Pkg", whitelist) {
		t.Error("expected Other.Pkg to be rejected")
	}
	if IsAllowed("Acme.Shop", nil) {
		t.Error("empty whitelist allows nothing")
	}
}

func TestSelectEligible(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		whitelist  []string
		want       []string
	}{
		{
			name:       "whitelist order wins",
			candidates: []string{"A", "B"},
			whitelist:  []string{"B", "A"},
			want:       []string{"B", "A"},
		},
		{
			name:       "intersection",
			candidates: []string{"A", "C"},
			whitelist:  []string{"B", "C"},
			want:       []string{"C"},
		},
		{
			name:       "no overlap",
			candidates: []string{"A"},
			whitelist:  []string{"B"},
			want:       nil,
		},
		{
			name:       "duplicates dropped",
			candidates: []string{"A", "A"},
			whitelist:  []string{"A", "A", "B"},
			want:       []string{"A"},
		},
		{
			name:       "empty whitelist",
			candidates: []string{"A"},
			whitelist:  nil,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectEligible(tt.candidates, tt.whitelist)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SelectEligible() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
