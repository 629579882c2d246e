package contracts

import "context"

// MarketDataProvider supplies quotes, statements and metadata per ticker
// ⭐ SSOT: 시장 데이터 제공처 인터페이스 (Yahoo, 캐시 래퍼)
type MarketDataProvider interface {
	Snapshot(ctx context.Context, symbol string) (*MarketSnapshot, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	News(ctx context.Context, symbol string, limit int) ([]NewsItem, error)
}

// MacroDataProvider supplies national market cap and GDP
// ⭐ SSOT: 거시 데이터 제공처 인터페이스 (World Bank, 캐시 래퍼)
type MacroDataProvider interface {
	Observation(ctx context.Context, country Country) (*MacroObservation, error)
}

// SnapshotArchive stores raw provider snapshots (never computed scores)
type SnapshotArchive interface {
	Save(ctx context.Context, symbol string, snapshot *MarketSnapshot) error
	Latest(ctx context.Context, symbol string) (*MarketSnapshot, error)
}
