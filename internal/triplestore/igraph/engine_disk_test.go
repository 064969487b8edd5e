package igraph

import (
	"testing"

	"github.com/FAU-CDI/kdict/internal/triplestore/imap"
)

func TestDiskEngine(t *testing.T) {
	t.Parallel()

	graphTest(t, DiskEngine{OnDisk: imap.OnDisk{Dir: t.TempDir()}}, 500)
}
