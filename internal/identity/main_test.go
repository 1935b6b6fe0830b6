package identity

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// geth's keystore.NewKeyStore() spawns fsnotify watchers that have
		// no Close() method, so they leak in tests. This is a known upstream
		// issue; the goroutine may be blocked inside the platform poller, so
		// both frames need ignoring.
		goleak.IgnoreTopFunction("github.com/ethereum/go-ethereum/accounts/keystore.(*watcher).loop"),
		goleak.IgnoreAnyFunction("github.com/fsnotify/fsnotify.(*Watcher).readEvents"),
	)
}
