package minter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testConfigData = `
[app]
client-id = "8017d200-7870-4b82-b53f-74bae1b54134"
session-id = "a5d41402-abc4-4b2a-76b9-719911017c59"
private-key = "key"
pin-token = "token"
pin = "123456"

[inventory]
url = "https://inventory.example.com"
feed-url = "wss://inventory.example.com/feed"

[oracle]
url = "https://oracle.example.com"
fallback-rate = "220"

[mint]
fee-usd = "1.25"
request-cap = 5
poll-interval = 15
`

func TestSetup(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.Nil(os.WriteFile(path, []byte(testConfigData), 0644))

	conf, err := Setup(path)
	require.Nil(err)
	require.Equal("8017d200-7870-4b82-b53f-74bae1b54134", conf.App.ClientId)
	require.Equal("https://inventory.example.com", conf.Inventory.URL)
	require.Equal("wss://inventory.example.com/feed", conf.Inventory.FeedURL)
	require.Equal(5, conf.Mint.RequestCap)
	require.Equal(15*time.Second, conf.PollInterval())

	fee, err := conf.FeeUSD()
	require.Nil(err)
	require.Equal("1.25", fee.String())
	rate, err := conf.FallbackRate()
	require.Nil(err)
	require.Equal("220", rate.String())
}

func TestSetupDefaults(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.Nil(os.WriteFile(path, []byte("[inventory]\nurl = \"https://inventory.example.com\"\n"), 0644))

	conf, err := Setup(path)
	require.Nil(err)
	require.Equal(10, conf.Mint.RequestCap)
	require.Equal(10*time.Second, conf.PollInterval())

	_, err = conf.FallbackRate()
	require.NotNil(err)
}

func TestSetupMissingInventory(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.Nil(os.WriteFile(path, []byte("[mint]\nfee-usd = \"1\"\n"), 0644))

	_, err := Setup(path)
	require.NotNil(err)
}
