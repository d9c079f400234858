package minter

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

type Configuration struct {
	App struct {
		ClientId   string `toml:"client-id"`
		SessionId  string `toml:"session-id"`
		PrivateKey string `toml:"private-key"`
		PinToken   string `toml:"pin-token"`
		PIN        string `toml:"pin"`
	} `toml:"app"`
	Inventory struct {
		URL     string `toml:"url"`
		FeedURL string `toml:"feed-url"`
	} `toml:"inventory"`
	Oracle struct {
		URL          string `toml:"url"`
		FallbackRate string `toml:"fallback-rate"`
	} `toml:"oracle"`
	Mint struct {
		FeeUSD              string `toml:"fee-usd"`
		RequestCap          int    `toml:"request-cap"`
		PollIntervalSeconds int64  `toml:"poll-interval"`
	} `toml:"mint"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	if conf.Inventory.URL == "" {
		return nil, fmt.Errorf("missing inventory url in %s", path)
	}
	if conf.Mint.RequestCap < 1 {
		conf.Mint.RequestCap = 10
	}
	if conf.Mint.PollIntervalSeconds < 1 {
		conf.Mint.PollIntervalSeconds = 10
	}
	return &conf, nil
}

func (c *Configuration) FeeUSD() (decimal.Decimal, error) {
	if c.Mint.FeeUSD == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(c.Mint.FeeUSD)
}

func (c *Configuration) FallbackRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Oracle.FallbackRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid fallback rate %s", c.Oracle.FallbackRate)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid fallback rate %s", c.Oracle.FallbackRate)
	}
	return rate, nil
}

func (c *Configuration) PollInterval() time.Duration {
	return time.Duration(c.Mint.PollIntervalSeconds) * time.Second
}
