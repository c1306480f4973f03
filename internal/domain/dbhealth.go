package domain

import "time"

// Raw storage-engine statistics read from pg_catalog. Derived flags are
// computed by the dbhealth service.

type TableStat struct {
	Schema          string     `json:"schema"`
	Table           string     `json:"table"`
	LiveTuples      int64      `json:"live_tuples"`
	DeadTuples      int64      `json:"dead_tuples"`
	Updates         int64      `json:"updates"`
	HotUpdates      int64      `json:"hot_updates"`
	SeqScans        int64      `json:"seq_scans"`
	IdxScans        int64      `json:"idx_scans"`
	LastAnalyze     *time.Time `json:"last_analyze"`
	LastAutoAnalyze *time.Time `json:"last_autoanalyze"`
	LastVacuum      *time.Time `json:"last_vacuum"`
	LastAutoVacuum  *time.Time `json:"last_autovacuum"`
	TotalBytes      int64      `json:"total_bytes"`
	ToastBytes      int64      `json:"toast_bytes"`
}

type RLSStatus struct {
	Schema      string `json:"schema"`
	Table       string `json:"table"`
	RLSEnabled  bool   `json:"rls_enabled"`
	RLSForced   bool   `json:"rls_forced"`
	PolicyCount int    `json:"policy_count"`
}

type IndexStat struct {
	Schema    string `json:"schema"`
	Table     string `json:"table"`
	Index     string `json:"index"`
	Scans     int64  `json:"scans"`
	SizeBytes int64  `json:"size_bytes"`
	IsUnique  bool   `json:"is_unique"`
	IsPrimary bool   `json:"is_primary"`
}

type ConnectionStat struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type DatabaseSize struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	MaxConns  int    `json:"max_connections"`
}
