package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/citizenwallet/tokenwallet/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	RPCURL              string        `env:"RPC_URL,default=http://localhost:8545"`
	TokenAddress        string        `env:"TOKEN_ADDRESS,required"`
	PrivateKey          string        `env:"PRIVATE_KEY"`
	AccountAddress      string        `env:"ACCOUNT_ADDRESS"`
	StartBlock          int64         `env:"START_BLOCK,default=0"`
	SyncRate            int           `env:"SYNC_RATE,default=10000"`
	FetchMode           string        `env:"FETCH_MODE,default=cursor"`
	RPCRateLimit        float64       `env:"RPC_RATE_LIMIT,default=0"`
	ConfirmationTimeout time.Duration `env:"CONFIRMATION_TIMEOUT,default=0s"`
	BalanceTTL          time.Duration `env:"BALANCE_TTL,default=10s"`
	AddressBookPath     string        `env:"ADDRESS_BOOK_PATH"`
	APIKEY              string        `env:"API_KEY"`
	SentryURL           string        `env:"SENTRY_URL"`
	DiscordURL          string        `env:"DISCORD_URL"`
	Notify              bool          `env:"NOTIFY,default=false"`

	AddressBook map[string]string
}

func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.Default().Println("loading env from file: ", envpath)
		err := godotenv.Load(envpath)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := envconfig.Process(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.PrivateKey == "" && cfg.AccountAddress == "" {
		return nil, fmt.Errorf("either PRIVATE_KEY or ACCOUNT_ADDRESS must be set")
	}

	book, err := ReadAddressBook(cfg.AddressBookPath)
	if err != nil {
		return nil, err
	}

	cfg.AddressBook = book

	return cfg, nil
}

// ReadAddressBook parses a json object of address to name, an empty path gives an empty book
func ReadAddressBook(path string) (map[string]string, error) {
	book := map[string]string{}
	if path == "" {
		return book, nil
	}

	// does the address book exist
	exists := storage.Exists(path)
	if !exists {
		return nil, fmt.Errorf("address book not found: %s", path)
	}

	b, err := storage.Read(path)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(b, &book)
	if err != nil {
		return nil, fmt.Errorf("invalid address book %s: %w", path, err)
	}

	return book, nil
}
