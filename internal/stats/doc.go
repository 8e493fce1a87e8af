// Package stats folds file records into collection-wide statistics and
// renders the end-of-run report.
//
// Implemented:
//   - Aggregator: streaming fold over records; failed probes count toward
//     the failure tally and nothing else
//   - Collection: the finished snapshot with counters, totals, rankings
//     and the per-field exclusion log
//   - Counter / Ranking: ordered tallies and top/bottom listings
//   - Render: the formatted report, colored for the console and plain for
//     the statistics file
//
// A record that breaks one statistic (an unparseable duration, say) is
// excluded from that statistic alone and noted in the error list; it still
// contributes everywhere else and never aborts the fold.
package stats
