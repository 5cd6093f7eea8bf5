package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CooldownTestSuite struct {
	suite.Suite
}

func TestCooldownSuite(t *testing.T) {
	suite.Run(t, new(CooldownTestSuite))
}

func (suite *CooldownTestSuite) TestMarkAndExpire() {
	cache := NewCooldownCache(5 * time.Minute)

	clock := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.setClock(func() time.Time { return clock })

	suite.False(cache.InCooldown("AAPL"))

	cache.MarkRateLimited("AAPL")
	suite.True(cache.InCooldown("AAPL"))
	suite.Equal(5*time.Minute, cache.Remaining("AAPL"))

	clock = clock.Add(4 * time.Minute)
	suite.True(cache.InCooldown("AAPL"))
	suite.Equal(time.Minute, cache.Remaining("AAPL"))

	clock = clock.Add(2 * time.Minute)
	suite.False(cache.InCooldown("AAPL"))
	suite.Zero(cache.Remaining("AAPL"))
}

func (suite *CooldownTestSuite) TestSymbolsAreIndependent() {
	cache := NewCooldownCache(time.Minute)
	cache.MarkRateLimited("AAPL")

	suite.True(cache.InCooldown("AAPL"))
	suite.False(cache.InCooldown("MSFT"))
}

func (suite *CooldownTestSuite) TestClear() {
	cache := NewCooldownCache(time.Minute)
	cache.MarkRateLimited("AAPL")
	cache.Clear("AAPL")

	suite.False(cache.InCooldown("AAPL"))
}

func (suite *CooldownTestSuite) TestZeroTTLUsesDefault() {
	cache := NewCooldownCache(0)

	clock := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.setClock(func() time.Time { return clock })
	cache.MarkRateLimited("AAPL")

	suite.Equal(DefaultCooldownTTL, cache.Remaining("AAPL"))
}
