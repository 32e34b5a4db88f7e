package layout

import (
	"html/template"
	"time"
)

// SiteInfo is the site-wide data every layout sees as .Site.
type SiteInfo struct {
	Title   string
	BaseURL string
}

// Page is the data contract between the builder and a layout. Single pages
// populate Content; list pages populate Pages.
type Page struct {
	Site       SiteInfo
	Title      string
	Date       time.Time
	Tags       []string
	Categories []string
	Permalink  string
	Content    template.HTML // rendered Markdown body, single pages only
	Pages      []PageRef     // list pages only
}

// PageRef is one entry on a list page.
type PageRef struct {
	Title     string
	Permalink string
	Date      time.Time
}
