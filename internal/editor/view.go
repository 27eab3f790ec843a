package editor

import (
	"net/url"
	"strings"
)

const (
	saveButtonBase    = "button is-success is-medium"
	saveButtonLoading = " is-disabled is-loading"
)

// PublicURL is where a saved page can be read. Empty until the page has a name.
func PublicURL(origin, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(origin, "/") + "/" + url.PathEscape(name)
}

func SaveButtonClass(l Lifecycle) string {
	if l == Loading {
		return saveButtonBase + saveButtonLoading
	}
	return saveButtonBase
}
