package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/goto/truora/config"
	"github.com/goto/truora/core/credential"
	"github.com/goto/truora/core/node"
	"github.com/goto/truora/domain"
	"github.com/goto/truora/internal/store/file"
	"github.com/goto/truora/pkg/audit"
	"github.com/goto/truora/pkg/crypto"
	"github.com/goto/truora/pkg/http"
	"github.com/goto/truora/pkg/log"
	"github.com/goto/truora/pkg/opentelemetry"
	"github.com/goto/truora/pkg/slices"
	truoracreds "github.com/goto/truora/plugins/credentials/truora"
	truoranode "github.com/goto/truora/plugins/nodes/truora"
)

// inlineCredentialName is the name given to the credential read from the
// config file or environment
const inlineCredentialName = "config"

type app struct {
	config            config.Config
	logger            log.Logger
	registry          *node.Registry
	credentialType    *truoracreds.CredentialType
	credentialService *credential.Service
	nodeService       *node.Service
	shutdown          func() error
}

func newApp(cmd *cobra.Command) (*app, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("getting config flag value: %w", err)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewCtxLogger(cfg.LogLevel, os.Stderr, log.DefaultContextKeys)

	shutdown, err := opentelemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	var encryptor domain.Crypto
	if cfg.EncryptionSecretKey != "" {
		aes, err := crypto.NewAES(cfg.EncryptionSecretKey)
		if err != nil {
			return nil, err
		}
		encryptor = aes
	}

	auditLogger, err := audit.NewFileLogger(cmd.Context(), cfg.AuditFile)
	if err != nil {
		return nil, err
	}

	cfg.HTTP.Instrument = cfg.Telemetry.Enabled
	httpClient := http.NewClient("truora", &cfg.HTTP)

	credentialType := truoracreds.NewCredentialType(validator.New())
	credentialService := credential.NewService(credential.ServiceDeps{
		Repository:  file.NewCredentialRepository(cfg.CredentialsFile),
		Types:       []credential.Type{credentialType},
		Crypto:      encryptor,
		HTTPClient:  httpClient,
		AuditLogger: auditLogger,
		Logger:      logger,
	})

	registry, err := node.NewRegistry(truoranode.NewNode())
	if err != nil {
		return nil, err
	}
	nodeService := node.NewService(node.ServiceDeps{
		Registry:          registry,
		CredentialService: credentialService,
		HTTPClient:        httpClient,
		Logger:            logger,
	})

	return &app{
		config:            cfg,
		logger:            logger,
		registry:          registry,
		credentialType:    credentialType,
		credentialService: credentialService,
		nodeService:       nodeService,
		shutdown:          shutdown,
	}, nil
}

func (a *app) close() {
	if err := a.shutdown(); err != nil {
		a.logger.Error(context.Background(), "shutting down telemetry", "error", err)
	}
}

// credential picks the credential used for a request: the named stored
// credential, else the one from config, else the only stored credential
// of the required type
func (a *app) credential(ctx context.Context, name string) (*domain.Credential, error) {
	if name != "" {
		return a.credentialService.Get(ctx, name)
	}

	if a.config.Credential.IsSet() {
		data := map[string]interface{}{"apiKey": a.config.Credential.APIKey}
		if a.config.Credential.BaseURL != "" {
			data["baseUrl"] = a.config.Credential.BaseURL
		}
		return &domain.Credential{
			Name: inlineCredentialName,
			Type: a.credentialType.GetType(),
			Data: data,
		}, nil
	}

	stored, err := a.credentialService.Find(ctx)
	if err != nil {
		return nil, err
	}
	var candidates []*domain.Credential
	for _, c := range stored {
		if c.Type == a.credentialType.GetType() {
			candidates = append(candidates, c)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: add one with \"truora credential add\" or set credential.api_key in config", domain.ErrCredentialRequired)
	case 1:
		return a.credentialService.Get(ctx, candidates[0].Name)
	default:
		return nil, errors.New("multiple credentials stored, choose one with --credential")
	}
}

// secretHeaders returns the header names that carry credential values
func (a *app) secretHeaders() []string {
	if auth := a.credentialType.Descriptor().Authenticate; auth != nil {
		return slices.GenericsMapKeys(auth.Headers)
	}
	return nil
}
