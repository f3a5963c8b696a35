// Package main provides the entry point for the sitekit CLI.
//
// sitekit is the companion tool of the Terminator2 dashboard site. It
// renders diary text the way the site does, fetches and inspects the JSON
// documents the pages load, summarises the portfolio, and regenerates the
// diary export and RSS feed.
//
// Usage:
//
//	sitekit render diary.txt
//	sitekit fetch portfolio_data.json --field total_equity --mana
//	sitekit summary -m -o summary.md
//	sitekit diary export diary.md
//	sitekit feed diary_entries.json
//
// See --help for all available options.
package main

// main is the entry point for sitekit.
func main() {
	Execute()
}
