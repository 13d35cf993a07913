package service

import (
	"context"

	"market-insights-be/internal/dto"
	"market-insights-be/internal/pkg/logger"
	"market-insights-be/pkg/llm"
	"market-insights-be/pkg/rag/mode"
	"market-insights-be/pkg/rag/prompt"
	"market-insights-be/pkg/rag/rank"
	"market-insights-be/pkg/rag/search"
	"market-insights-be/pkg/vectorstore"
)

type IQueryService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
}

// queryService runs the full pipeline: embed the question, rank candidates,
// select context per the mode's RAG percentage, then generate.
type queryService struct {
	clientName    string
	industry      string
	orchestrator  *search.Orchestrator
	modes         *mode.Manager
	llmProvider   llm.Provider
	minSimilarity float64
	log           logger.ILogger
}

func NewQueryService(
	clientName string,
	industry string,
	orchestrator *search.Orchestrator,
	modes *mode.Manager,
	llmProvider llm.Provider,
	minSimilarity float64,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		clientName:    clientName,
		industry:      industry,
		orchestrator:  orchestrator,
		modes:         modes,
		llmProvider:   llmProvider,
		minSimilarity: minSimilarity,
		log:           log,
	}
}

func (s *queryService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	modeName := req.Mode
	if modeName == "" {
		modeName = mode.Pure
	}

	cfg, err := s.modes.Get(modeName)
	if err != nil {
		return nil, err
	}

	filter, err := vectorstore.ParseFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	minSim := s.minSimilarity
	if req.MinSimilarity != nil {
		minSim = *req.MinSimilarity
	}

	results, err := s.orchestrator.Execute(ctx, req.Question, search.Params{
		TopK:          cfg.MaxContextChunks,
		MinSimilarity: minSim,
		Filter:        filter,
	})
	if err != nil {
		return nil, err
	}

	selection, err := rank.SelectContext(results, cfg, req.RagPercentage)
	if err != nil {
		return nil, err
	}

	builder := prompt.NewBuilder(prompt.Input{
		ClientName:           s.clientName,
		Industry:             s.industry,
		Mode:                 cfg.Name,
		RAGPercentage:        selection.RAGPercentage,
		CreativityPercentage: selection.CreativityPercentage,
		Passages:             selection.Passages,
		Query:                req.Question,
	})

	temperature := cfg.DefaultCreativityLevel
	if temperature == 0 {
		temperature = 0.1 // pure mode stays close to the sources
	}

	answer, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: builder.BuildSystemPrompt()},
		{Role: "user", Content: builder.BuildUserPrompt()},
	}, llm.WithTemperature(temperature))
	if err != nil {
		return nil, err
	}

	s.log.Info("query", "answered question", map[string]interface{}{
		"mode":           cfg.Name,
		"rag_percentage": selection.RAGPercentage,
		"sources":        len(selection.Passages),
	})

	return &dto.QueryResponse{
		Answer:               answer,
		Mode:                 cfg.Name,
		RagPercentage:        selection.RAGPercentage,
		CreativityPercentage: selection.CreativityPercentage,
		Sources:              toSourceChunks(selection.Passages),
	}, nil
}

func (s *queryService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	filter, err := vectorstore.ParseFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK == 0 {
		topK = 10
	}

	results, err := s.orchestrator.Execute(ctx, req.Query, search.Params{
		TopK:          topK,
		MinSimilarity: req.MinSimilarity,
		Filter:        filter,
	})
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{Results: toSourceChunks(results)}, nil
}

func toSourceChunks(results []vectorstore.RankedResult) []dto.SourceChunk {
	out := make([]dto.SourceChunk, 0, len(results))
	for _, r := range results {
		studyType, _ := r.Chunk.Metadata.StringValue(vectorstore.MetaStudyType)
		docName, _ := r.Chunk.Metadata.StringValue(vectorstore.MetaDocumentName)
		out = append(out, dto.SourceChunk{
			Id:           r.Chunk.ID,
			Content:      r.Chunk.Content,
			Score:        r.Score,
			StudyType:    studyType,
			DocumentName: docName,
		})
	}
	return out
}
