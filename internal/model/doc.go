// Package model defines the data passed between the crawl stages.
//
// Values flow one way: thread references produced by discovery become
// Thread values after extraction, and each processed thread leaves a
// ThreadResult in the RunReport. Nothing here outlives a single run.
package model
