package service

import (
	"context"
	"sort"

	"market-insights-be/internal/dto"
	"market-insights-be/pkg/rag/mode"
)

type IConfigService interface {
	GetMode(ctx context.Context, name string) (*dto.ModeConfigResponse, error)
	ListModes(ctx context.Context) ([]dto.ModeConfigResponse, error)
	UpdateMode(ctx context.Context, name string, req *dto.UpdateModeConfigRequest) (*dto.ModeConfigResponse, error)
}

type configService struct {
	modes *mode.Manager
}

func NewConfigService(modes *mode.Manager) IConfigService {
	return &configService{modes: modes}
}

func (s *configService) GetMode(ctx context.Context, name string) (*dto.ModeConfigResponse, error) {
	cfg, err := s.modes.Get(name)
	if err != nil {
		return nil, err
	}
	res := toModeResponse(cfg)
	return &res, nil
}

func (s *configService) ListModes(ctx context.Context) ([]dto.ModeConfigResponse, error) {
	all := s.modes.List()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]dto.ModeConfigResponse, 0, len(names))
	for _, name := range names {
		out = append(out, toModeResponse(all[name]))
	}
	return out, nil
}

func (s *configService) UpdateMode(ctx context.Context, name string, req *dto.UpdateModeConfigRequest) (*dto.ModeConfigResponse, error) {
	cfg, err := s.modes.Update(name, mode.Update{
		DefaultRAGPercentage: req.DefaultRagPercentage,
		MinRAGPercentage:     req.MinRagPercentage,
		MaxRAGPercentage:     req.MaxRagPercentage,
		MaxContextChunks:     req.MaxContextChunks,
		Description:          req.Description,
	})
	if err != nil {
		return nil, err
	}

	res := toModeResponse(cfg)
	return &res, nil
}

func toModeResponse(cfg mode.Config) dto.ModeConfigResponse {
	return dto.ModeConfigResponse{
		Name:                   cfg.Name,
		Description:            cfg.Description,
		DefaultRagPercentage:   cfg.DefaultRAGPercentage,
		MinRagPercentage:       cfg.MinRAGPercentage,
		MaxRagPercentage:       cfg.MaxRAGPercentage,
		DefaultCreativityLevel: cfg.DefaultCreativityLevel,
		EnableVisualization:    cfg.EnableVisualization,
		MaxContextChunks:       cfg.MaxContextChunks,
	}
}
