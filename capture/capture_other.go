//go:build !windows

package capture

import (
	"context"
	"time"
)

func (d Desktop) Run(context.Context, func(time.Time)) error {
	return ErrUnsupported
}
