package service

import (
	"context"

	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/pkg/gate"
)

type IKeyService interface {
	GenerateKey(ctx context.Context, req *dto.GenerateKeyRequest) (*dto.GenerateKeyResponse, error)
}

type keyService struct {
	issuer   *gate.Issuer
	verifier *gate.Verifier
	log      logger.ILogger
}

func NewKeyService(issuer *gate.Issuer, verifier *gate.Verifier, log logger.ILogger) IKeyService {
	return &keyService{
		issuer:   issuer,
		verifier: verifier,
		log:      log,
	}
}

func (ks *keyService) GenerateKey(ctx context.Context, req *dto.GenerateKeyRequest) (*dto.GenerateKeyResponse, error) {
	rawKey, err := ks.issuer.Issue(ctx, req.Tier)
	if err != nil {
		return nil, err
	}

	ks.log.Info("keys", "API key issued", map[string]interface{}{
		"tier": req.Tier,
	})

	return &dto.GenerateKeyResponse{
		ApiKey: rawKey,
		Tier:   req.Tier,
		Limit:  ks.verifier.Limit(req.Tier),
		Window: int(ks.verifier.Window().Seconds()),
	}, nil
}
