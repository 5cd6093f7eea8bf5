package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/steadyvest/steadyvest/pkg/errors"
)

type RetryTestSuite struct {
	suite.Suite
}

func TestRetrySuite(t *testing.T) {
	suite.Run(t, new(RetryTestSuite))
}

func fastPolicy(attempts uint64) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func (suite *RetryTestSuite) TestSucceedsFirstTry() {
	calls := 0

	err := fastPolicy(3).Execute(context.Background(), func() error {
		calls++

		return nil
	})

	suite.NoError(err)
	suite.Equal(1, calls)
}

func (suite *RetryTestSuite) TestRetriesTransientErrors() {
	calls := 0

	err := fastPolicy(3).Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New(errors.ErrCodeMarketDataFetchFailed, "connection reset")
		}

		return nil
	})

	suite.NoError(err)
	suite.Equal(3, calls)
}

func (suite *RetryTestSuite) TestExhaustsAttempts() {
	calls := 0

	err := fastPolicy(3).Execute(context.Background(), func() error {
		calls++

		return errors.New(errors.ErrCodeMarketDataFetchFailed, "connection reset")
	})

	suite.Error(err)
	suite.Equal(3, calls)
}

func (suite *RetryTestSuite) TestRateLimitIsPermanent() {
	calls := 0

	err := fastPolicy(5).Execute(context.Background(), func() error {
		calls++

		return errors.New(errors.ErrCodeRateLimited, "too many requests")
	})

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRateLimited))
	suite.Equal(1, calls)
}

func (suite *RetryTestSuite) TestInvalidRangeIsPermanent() {
	calls := 0

	err := fastPolicy(5).Execute(context.Background(), func() error {
		calls++

		return errors.New(errors.ErrCodeInvalidDateRange, "start after end")
	})

	suite.Error(err)
	suite.Equal(1, calls)
}

func (suite *RetryTestSuite) TestCanceledContextStops() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastPolicy(5).Execute(ctx, func() error {
		return errors.New(errors.ErrCodeMarketDataFetchFailed, "connection reset")
	})

	suite.Error(err)
}
