package build

import (
	"os"
	"os/exec"

	"github.com/alistra/boolsearch/boolerr"
)

// SortFile delegates the big line-oriented sort of the index/morphology
// intermediate file to the system `sort` utility ("LC_ALL=C sort -k1,1
// -s") rather than reimplementing an external merge sort in Go.
func SortFile(src, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "create sort output %s", dest)
	}
	defer out.Close()

	cmd := exec.Command("sort", "-k1,1", "-s", src)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return boolerr.Wrap(boolerr.KindIOError, err, "sort %s", src)
	}
	return nil
}
