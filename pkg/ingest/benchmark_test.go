package ingest

import (
	"context"
	"testing"

	"github.com/japaniel/voiceset/pkg/reading"
)

func BenchmarkIngest(b *testing.B) {
	analyzer, err := reading.NewAnalyzer()
	if err != nil {
		b.Fatalf("analyzer: %v", err)
	}
	assets := makeAssets(500)
	for i, a := range assets {
		if i%2 == 0 {
			a.Language = "Japanese"
			a.Transcription = "これはテスト文です。旅人、よろしくね！"
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		conn := setupDB(b)
		_, _ = conn.Exec("PRAGMA synchronous = OFF")
		_, _ = conn.Exec("PRAGMA journal_mode = MEMORY")
		ingester := NewIngester(conn, analyzer)
		ingester.BatchSize = 100
		b.StartTimer()

		if _, err := ingester.Ingest(context.Background(), assets); err != nil {
			b.Fatalf("Ingest failed: %v", err)
		}

		b.StopTimer()
		conn.Close()
		b.StartTimer()
	}
}
