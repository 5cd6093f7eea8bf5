package strategy

import (
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// ParameterSpec describes one tunable parameter for the presentation layer.
type ParameterSpec struct {
	Name        string  `yaml:"name" json:"name"`
	Type        string  `yaml:"type" json:"type"` // int or float
	Default     float64 `yaml:"default" json:"default"`
	Min         float64 `yaml:"min" json:"min"`
	Max         float64 `yaml:"max" json:"max"`
	Description string  `yaml:"description" json:"description"`
}

// Descriptor is a catalog entry for one strategy variant.
type Descriptor struct {
	ID          StrategyType    `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Parameters  []ParameterSpec `yaml:"parameters" json:"parameters"`
	// Schema is the JSON Schema of the variant's parameter struct.
	Schema string `yaml:"schema" json:"schema"`
}

// Catalog returns the descriptors of every available strategy variant.
func Catalog() ([]Descriptor, error) {
	rsiSchema, err := ToJSONSchema(RSIParams{})
	if err != nil {
		return nil, err
	}

	maSchema, err := ToJSONSchema(MovingAverageParams{})
	if err != nil {
		return nil, err
	}

	bbSchema, err := ToJSONSchema(BollingerBandsParams{})
	if err != nil {
		return nil, err
	}

	dcaSchema, err := ToJSONSchema(DCAParams{})
	if err != nil {
		return nil, err
	}

	return []Descriptor{
		{
			ID:          StrategyTypeRSI,
			Name:        "RSI Strategy",
			Description: "Invests when RSI falls below a threshold, indicating oversold conditions",
			Parameters: []ParameterSpec{
				{Name: "period", Type: "int", Default: 14, Min: 2, Max: 50, Description: "Period for RSI calculation"},
				{Name: "buy_threshold", Type: "float", Default: 25, Min: 10, Max: 40, Description: "RSI threshold for investing (lower = more aggressive)"},
				{Name: "sell_threshold", Type: "float", Default: 70, Min: 50, Max: 90, Description: "RSI threshold for liquidating the position"},
			},
			Schema: rsiSchema,
		},
		{
			ID:          StrategyTypeMovingAverage,
			Name:        "Moving Average Crossover",
			Description: "Invests when the fast moving average crosses above the slow moving average",
			Parameters: []ParameterSpec{
				{Name: "fast_period", Type: "int", Default: 10, Min: 5, Max: 50, Description: "Fast moving average period"},
				{Name: "slow_period", Type: "int", Default: 30, Min: 15, Max: 100, Description: "Slow moving average period"},
			},
			Schema: maSchema,
		},
		{
			ID:          StrategyTypeBollingerBands,
			Name:        "Bollinger Bands Strategy",
			Description: "Invests when price touches the lower Bollinger Band (oversold condition)",
			Parameters: []ParameterSpec{
				{Name: "period", Type: "int", Default: 20, Min: 10, Max: 50, Description: "Period for Bollinger Bands calculation"},
				{Name: "dev_factor", Type: "float", Default: 2.0, Min: 1.5, Max: 3.0, Description: "Standard deviation multiplier for bands"},
			},
			Schema: bbSchema,
		},
		{
			ID:          StrategyTypeDCA,
			Name:        "Dollar Cost Averaging",
			Description: "Invests a fixed amount at regular intervals regardless of market conditions",
			Parameters:  []ParameterSpec{},
			Schema:      dcaSchema,
		},
	}, nil
}

// CreateStrategy builds a strategy variant from its tag and a flat parameter
// map, as received from the HTTP API or CLI flags. Missing parameters fall
// back to the variant defaults.
func CreateStrategy(strategyType StrategyType, params map[string]float64) (Strategy, error) {
	get := func(key string, fallback float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}

		return fallback
	}

	switch strategyType {
	case StrategyTypeRSI:
		defaults := DefaultRSIParams()

		return NewRSIStrategy(RSIParams{
			Period:        int(get("period", float64(defaults.Period))),
			BuyThreshold:  get("buy_threshold", defaults.BuyThreshold),
			SellThreshold: get("sell_threshold", defaults.SellThreshold),
		})
	case StrategyTypeMovingAverage:
		defaults := DefaultMovingAverageParams()

		return NewMovingAverageStrategy(MovingAverageParams{
			FastPeriod: int(get("fast_period", float64(defaults.FastPeriod))),
			SlowPeriod: int(get("slow_period", float64(defaults.SlowPeriod))),
		})
	case StrategyTypeBollingerBands:
		defaults := DefaultBollingerBandsParams()

		return NewBollingerBandsStrategy(BollingerBandsParams{
			Period:    int(get("period", float64(defaults.Period))),
			DevFactor: get("dev_factor", defaults.DevFactor),
		})
	case StrategyTypeDCA:
		return NewDCAStrategy(DCAParams{})
	default:
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "unknown strategy: %s", strategyType)
	}
}
