// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL checks a base URL that paths are appended to: the
// snapshot bucket ({base}/parquet/works.parquet) and the sitemap root.
// A single trailing slash is tolerated.
func validateHTTPURL(raw, env string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", env, err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%s scheme must be http or https, got %q", env, u.Scheme)
	case u.Host == "":
		return fmt.Errorf("%s host is required", env)
	case u.User != nil:
		return fmt.Errorf("%s must not embed credentials", env)
	case u.Path != "" && u.Path != "/":
		return fmt.Errorf("%s should be base URL only, remove path %q", env, u.Path)
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("%s must not carry a query or fragment", env)
	}
	return nil
}
