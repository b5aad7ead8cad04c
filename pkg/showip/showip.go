// Package showip ties resolution and presentation together for a single hostname.
package showip

import (
	"context"
	"github.com/ghjm/showip/pkg/present"
	"github.com/ghjm/showip/pkg/resolve"
	log "github.com/sirupsen/logrus"
	"time"
)

// Run resolves hostname once and prints its addresses.  The result is released before Run returns.
// Nothing is printed if resolution or presentation fails.
func Run(ctx context.Context, resolver resolve.Resolver, hostname string, printer *present.Printer) error {
	startTime := time.Now()
	err := resolve.With(ctx, resolver, hostname, func(res *resolve.Result) error {
		log.Debugf("resolved %s to %d addresses in %v", hostname, res.Len(), time.Since(startTime).Round(time.Millisecond))
		return printer.Print(hostname, res.Records())
	})
	if err != nil {
		log.Debugf("failed to show addresses for %s after %v: %s", hostname, time.Since(startTime).Round(time.Millisecond), err)
	}
	return err
}
