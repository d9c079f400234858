package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/launchpad/inventory"
	"github.com/MixinNetwork/launchpad/ledger"
	"github.com/MixinNetwork/launchpad/mint"
	"github.com/MixinNetwork/launchpad/minter"
	"github.com/MixinNetwork/launchpad/oracle"
	"github.com/MixinNetwork/launchpad/store"
	"github.com/MixinNetwork/launchpad/wallet"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/fox-one/mixin-sdk-go"
)

func main() {
	ctx := context.Background()

	bp := flag.String("d", "~/.mixin/launchpad/data", "database directory path")
	cp := flag.String("c", "~/.mixin/launchpad/config.toml", "configuration file path")
	cid := flag.String("m", "", "collection id to mint")
	quantity := flag.Int("n", 1, "quantity to mint")
	yes := flag.Bool("y", false, "skip the cost confirmation prompt")
	flag.Parse()

	if *cid == "" {
		fmt.Println("missing collection id, use -m")
		os.Exit(1)
	}

	conf, err := minter.Setup(expandPath(*cp))
	if err != nil {
		panic(err)
	}
	db, err := store.OpenBadger(ctx, expandPath(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	keystore := &mixin.Keystore{
		ClientID:   conf.App.ClientId,
		SessionID:  conf.App.SessionId,
		PrivateKey: conf.App.PrivateKey,
		PinToken:   conf.App.PinToken,
	}
	signer, err := wallet.NewMixinSigner(keystore, conf.App.PIN)
	if err != nil {
		panic(err)
	}
	signer.SetApprover(func(url string) {
		fmt.Printf("approve the mint in your wallet: %s\n", url)
	})
	kernel, err := ledger.NewMixinLedger(keystore)
	if err != nil {
		panic(err)
	}

	fallback, err := conf.FallbackRate()
	if err != nil {
		panic(err)
	}
	feeUSD, err := conf.FeeUSD()
	if err != nil {
		panic(err)
	}

	inv := inventory.NewClient(conf.Inventory.URL)
	rates := oracle.NewClient(conf.Oracle.URL, db, fallback)

	var feed minter.Feed
	if conf.Inventory.FeedURL != "" {
		feed = inventory.NewSupplyFeed(conf.Inventory.FeedURL)
	}
	tracker := minter.NewTracker(*cid, inv, feed, db, conf.PollInterval())
	go tracker.Run(ctx)

	clock, err := minter.NewClock(db)
	if err != nil {
		panic(err)
	}

	orchestrator := minter.NewOrchestrator(db, inv, signer, kernel)
	orchestrator.SetListener(&logListener{})

	session := minter.NewSession(conf.App.ClientId, inv, rates, orchestrator, tracker, clock, feeUSD, conf.Mint.RequestCap)

	confirm := func(cost *mint.Cost) bool {
		fmt.Printf("minting %d at %s XIN each, %s XIN platform fee, %s XIN total [y/N] ", cost.Quantity, cost.UnitPrice, cost.Fee, cost.Total)
		if *yes {
			fmt.Println("y")
			return true
		}
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		return strings.TrimSpace(strings.ToLower(line)) == "y"
	}

	res, err := session.InitiateMint(ctx, *cid, *quantity, confirm)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(res.Summary())
	if p := tracker.Current(); p != nil {
		fmt.Printf("%d/%d minted\n", p.MintedCount, p.TotalSupply)
	}
	orchestrator.Drain()
	if res.Err != nil {
		os.Exit(1)
	}
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		usr, _ := user.Current()
		return filepath.Join(usr.HomeDir, p[2:])
	}
	return p
}

type logListener struct{}

func (l *logListener) UnitStarted(index, total int) {
	logger.Printf("minting collectible %d of %d\n", index, total)
}

func (l *logListener) UnitFinalized(index, total int, signature string) {
	logger.Printf("collectible %d of %d finalized %s\n", index, total, signature)
}

func (l *logListener) UnitFailed(index, total int, err error) {
	logger.Printf("collectible %d of %d failed %v\n", index, total, err)
}

func (l *logListener) BatchComplete(succeeded, requested int) {
	logger.Printf("batch complete %d/%d\n", succeeded, requested)
}
