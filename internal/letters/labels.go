package letters

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// ErrBadLabels is returned for a label file the classifier cannot use.
var ErrBadLabels = errors.New("bad labels file")

// LoadLabels reads one label per line. Lines are trimmed but kept in place,
// so line N names output N of the network.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	// Trailing blank lines name no output.
	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}
	if len(lo.Compact(labels)) == 0 {
		return nil, fmt.Errorf("%w: %s has no labels", ErrBadLabels, path)
	}

	return labels, nil
}
