// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokens

// Origin records which site section started an authentication flow.
type Origin string

const (
	OriginTech    Origin = "tech"
	OriginInfra   Origin = "infra"
	OriginDigital Origin = "digital"
	OriginPublic  Origin = "public"
)

// ParseOrigin maps s to a known origin. Unknown values yield (OriginPublic, false).
func ParseOrigin(s string) (Origin, bool) {
	switch o := Origin(s); o {
	case OriginTech, OriginInfra, OriginDigital, OriginPublic:
		return o, true
	}
	return OriginPublic, false
}

// Path is the post-login landing path for the origin.
func (o Origin) Path() string {
	switch o {
	case OriginTech:
		return "/tech"
	case OriginInfra:
		return "/infra"
	case OriginDigital:
		return "/digital"
	default:
		return "/"
	}
}

// RedirectPath resolves a raw origin value (cookie or stored marker) to a path,
// falling back to the public root.
func RedirectPath(raw string) string {
	o, _ := ParseOrigin(raw)
	return o.Path()
}
