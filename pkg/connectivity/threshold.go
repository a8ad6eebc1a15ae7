// Package connectivity decides whether a cluster is well-connected: its
// connectivity score must meet a size-dependent threshold. Evaluation is a
// pure function of the graph, the members and the configuration.
package connectivity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrBadThreshold is returned when a threshold selector cannot be parsed.
var ErrBadThreshold = errors.New("unparsable threshold selector")

// ThresholdFunc maps a cluster size to the minimum acceptable connectivity
// score for that size. Implementations must return values >= 0.
type ThresholdFunc interface {
	Threshold(size int) float64
	String() string
}

// logThreshold is the "<k>log10" family: k * log10(size).
type logThreshold struct{ k float64 }

func (t logThreshold) Threshold(size int) float64 {
	if size < 2 {
		return 0
	}
	return t.k * math.Log10(float64(size))
}

func (t logThreshold) String() string { return fmt.Sprintf("%glog10", t.k) }

// linThreshold is the "<k>lin" family: k * size.
type linThreshold struct{ k float64 }

func (t linThreshold) Threshold(size int) float64 { return t.k * float64(size) }

func (t linThreshold) String() string { return fmt.Sprintf("%glin", t.k) }

// constThreshold is a flat requirement independent of size.
type constThreshold struct{ k float64 }

func (t constThreshold) Threshold(int) float64 { return t.k }

func (t constThreshold) String() string { return strconv.FormatFloat(t.k, 'g', -1, 64) }

var thresholdPattern = regexp.MustCompile(`^([0-9]*\.?[0-9]+)?(log10|lin)?$`)

// ParseThreshold parses a threshold selector: a bare non-negative constant
// ("2", "1.5"), "<k>log10" (k defaults to 1) or "<k>lin". The empty string
// is rejected.
func ParseThreshold(s string) (ThresholdFunc, error) {
	m := thresholdPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return nil, fmt.Errorf("%w: %q", ErrBadThreshold, s)
	}

	k := 1.0
	if m[1] != "" {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadThreshold, s)
		}
		k = v
	}

	switch m[2] {
	case "log10":
		return logThreshold{k: k}, nil
	case "lin":
		return linThreshold{k: k}, nil
	default:
		return constThreshold{k: k}, nil
	}
}
