// Package portfolio derives the figures shown in the site's portfolio
// snapshot from a portfolio_data.json document.
//
// Summarize is a pure function of the snapshot and the current time. It
// computes equity and ROI, the share of capital deployed, the health of the
// open positions' edges, the capital expected back from positions closing
// soon, and the freshness of the agent's heartbeat and last trade.
package portfolio
