package resolve

import (
	"testing"

	"github.com/rollgate/rollgate/internal/core/domain"
)

func TestClassify(t *testing.T) {
	yes, no := true, false
	cases := []struct {
		name      string
		success   *bool
		finalized bool
		want      domain.Status
	}{
		{"pending", nil, false, domain.StatusQueued},
		{"pending ignores finality", nil, true, domain.StatusQueued},
		{"failed", &no, false, domain.StatusRejected},
		{"failed in finalized block", &no, true, domain.StatusRejected},
		{"succeeded unfinalized", &yes, false, domain.StatusCommitted},
		{"succeeded finalized", &yes, true, domain.StatusFinalized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.success, c.finalized); got != c.want {
				t.Errorf("Classify(%v, %v) = %s, want %s", c.success, c.finalized, got, c.want)
			}
		})
	}
}
