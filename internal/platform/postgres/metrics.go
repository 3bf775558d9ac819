// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is a point-in-time view of the connection pool.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
	Max      int32
}

// StatsFunc produces the current [PoolStats].
type StatsFunc func() PoolStats

// PoolStatsOf adapts a pgxpool to a [StatsFunc].
func PoolStatsOf(pool *pgxpool.Pool) StatsFunc {
	return func() PoolStats {
		stat := pool.Stat()
		return PoolStats{
			Acquired: stat.AcquiredConns(),
			Idle:     stat.IdleConns(),
			Total:    stat.TotalConns(),
			Max:      stat.MaxConns(),
		}
	}
}

// PoolCollectors returns gauges reporting the pool state on every scrape.
func PoolCollectors(stats StatsFunc) []prometheus.Collector {
	gauge := func(name, help string, pick func(PoolStats) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "portal",
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(pick(stats()))
		})
	}

	return []prometheus.Collector{
		gauge("acquired_connections", "Connections currently checked out of the pool.", func(s PoolStats) int32 { return s.Acquired }),
		gauge("idle_connections", "Idle connections held by the pool.", func(s PoolStats) int32 { return s.Idle }),
		gauge("total_connections", "Total connections owned by the pool.", func(s PoolStats) int32 { return s.Total }),
		gauge("max_connections", "Configured pool size limit.", func(s PoolStats) int32 { return s.Max }),
	}
}
