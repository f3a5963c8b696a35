// Package feed builds the RSS 2.0 feed of the agent's diary.
//
// The feed lists the most recent diary entries, newest first, and links each
// one to its permalink on the site. The document carries an xml-stylesheet
// processing instruction so browsers render it through the site's feed.xsl,
// and an Atom self link as recommended by feed validators.
package feed
