package cli

import "errors"

var errNoAppBuilder = errors.New("application builder not configured")
