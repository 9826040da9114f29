package services

import (
	"context"
	"fmt"
	"log/slog"

	"ecospend/internal/amqp"
	"ecospend/internal/core"
	"ecospend/internal/storage"
)

// AnalysisService runs the carbon pipeline and orchestrates persistence and
// report sync messaging around it.
type AnalysisService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	peers      core.PeerDistribution
}

func NewAnalysisService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, peers core.PeerDistribution) *AnalysisService {
	return &AnalysisService{
		storage:    storage,
		amqpClient: amqpClient,
		peers:      peers,
	}
}

// Analyze runs the pipeline over records, saves the outcome and publishes a
// report sync message. Publishing is best effort; the periodic worker sweep
// covers lost messages.
func (s *AnalysisService) Analyze(ctx context.Context, source string, records []core.Record) (int64, []core.MonthlyResult, error) {
	results, err := core.Process(records, s.peers)
	if err != nil {
		return 0, nil, fmt.Errorf("process records: %w", err)
	}

	analysisID, err := s.storage.SaveAnalysis(ctx, source, len(records), results)
	if err != nil {
		return 0, nil, fmt.Errorf("save analysis: %w", err)
	}

	if err := s.publishSyncMessage(ctx, analysisID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish report sync message",
			"analysis_id", analysisID, "error", err)
		// Don't fail the request - the analysis is saved locally
	}

	slog.InfoContext(ctx, "Analysis completed",
		"analysis_id", analysisID,
		"source", source,
		"records", len(records),
		"months", len(results))

	return analysisID, results, nil
}

// Get returns a stored analysis and its monthly results.
func (s *AnalysisService) Get(ctx context.Context, analysisID int64) (storage.Analysis, []core.MonthlyResult, error) {
	return s.storage.GetAnalysis(ctx, analysisID)
}

func (s *AnalysisService) publishSyncMessage(ctx context.Context, analysisID int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping report sync message")
		return nil
	}
	return s.amqpClient.PublishReportSync(ctx, analysisID)
}
