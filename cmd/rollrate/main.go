// SPDX-License-Identifier: MIT

// Command rollrate fits transition matrices from CSV panels, prints them as
// heatmaps and serves them over HTTP.
package main

func main() {
	Execute()
}
