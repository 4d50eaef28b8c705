//go:build headless

package tone

import "errors"

// Beeper is unavailable in headless builds.
type Beeper struct{ Silent }

func NewBeeper() (*Beeper, error) {
	return nil, errors.New("audio output is not available in headless builds")
}
