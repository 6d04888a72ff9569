package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tradepulse/internal/store/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Seed a SQLite database with mock order-state and signal rows for the
// analytics API.
// Usage: go run scripts/seed_mock_data.go [db_path] [fixture_path]
// Default db_path: data/db/engine_state.db
// Default fixture: scripts/mock_orders.yaml (built-in samples when absent)
func main() {
	dbPath := "data/db/engine_state.db"
	if len(os.Args) > 1 && strings.TrimSpace(os.Args[1]) != "" {
		dbPath = strings.TrimSpace(os.Args[1])
	}
	fixturePath := "scripts/mock_orders.yaml"
	if len(os.Args) > 2 && strings.TrimSpace(os.Args[2]) != "" {
		fixturePath = strings.TrimSpace(os.Args[2])
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		panic(err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err := db.AutoMigrate(&model.OrderStateModel{}, &model.SignalModel{}); err != nil {
		panic(err)
	}

	fixture, err := loadFixture(fixturePath)
	if err != nil {
		panic(err)
	}

	orders, signals, err := seed(db, fixture)
	if err != nil {
		panic(err)
	}
	fmt.Printf("✓ seeded %d order rows and %d signal rows into %s\n", orders, signals, dbPath)
}

type fixtureOrder struct {
	OrderID        string   `yaml:"order_id"`
	BrokerOrderID  string   `yaml:"broker_order_id"`
	Symbol         string   `yaml:"symbol"`
	OptionType     string   `yaml:"option_type"`
	Side           string   `yaml:"side"`
	Qty            *float64 `yaml:"qty"`
	EntryPrice     *float64 `yaml:"entry_price"`
	CurrentPrice   *float64 `yaml:"current_price"`
	RealizedProfit *float64 `yaml:"realized_profit"`
	States         []string `yaml:"states"`
	AgeMinutes     int      `yaml:"age_minutes"`
}

type fixtureSignal struct {
	Symbol     string  `yaml:"symbol"`
	Close      float64 `yaml:"close"`
	Indicators string  `yaml:"indicators"`
	AgeMinutes int     `yaml:"age_minutes"`
}

type fixtureFile struct {
	Orders  []fixtureOrder  `yaml:"orders"`
	Signals []fixtureSignal `yaml:"signals"`
}

func loadFixture(path string) (*fixtureFile, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return builtinFixture(), nil
	}
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return &f, nil
}

// builtinFixture covers every lifecycle bucket plus a pending-only order so
// the seeded database exercises the canonicalization path.
func builtinFixture() *fixtureFile {
	return &fixtureFile{
		Orders: []fixtureOrder{
			{Symbol: "SPY", OptionType: "call", Side: "buy", Qty: f(5), EntryPrice: f(4.10), CurrentPrice: f(4.55), States: []string{"pending", "active"}, AgeMinutes: 20},
			{Symbol: "QQQ", OptionType: "put", Side: "buy", Qty: f(3), EntryPrice: f(2.80), RealizedProfit: f(1.35), States: []string{"pending", "active", "closed"}, AgeMinutes: 95},
			{Symbol: "IWM", OptionType: "call", Side: "buy", Qty: f(2), EntryPrice: f(1.95), RealizedProfit: f(-0.60), States: []string{"pending", "filled"}, AgeMinutes: 200},
			{Symbol: "SPY", OptionType: "put", Side: "sell", Qty: f(1), EntryPrice: f(3.20), States: []string{"pending", "rejected"}, AgeMinutes: 45},
			{Symbol: "TLT", OptionType: "call", Side: "buy", Qty: f(4), EntryPrice: f(0.85), States: []string{"pending"}, AgeMinutes: 5},
		},
		Signals: []fixtureSignal{
			{Symbol: "SPY", Close: 512.30, Indicators: `{"kf_regime":"up","kf_signal":"long","kf_velocity":0.42,"rsi":61.5}`, AgeMinutes: 2},
			{Symbol: "QQQ", Close: 441.10, Indicators: `{"kf_regime":"chop","kf_signal":"flat","kf_velocity":-0.03,"rsi":49.8}`, AgeMinutes: 4},
		},
	}
}

func seed(db *gorm.DB, fixture *fixtureFile) (int, int, error) {
	now := time.Now().UTC()
	orderRows := 0
	for _, ord := range fixture.Orders {
		orderID := strings.TrimSpace(ord.OrderID)
		if orderID == "" {
			orderID = uuid.NewString()
		}
		base := now.Add(-time.Duration(ord.AgeMinutes) * time.Minute)
		for i, state := range ord.States {
			ts := base.Add(time.Duration(i) * time.Minute)
			row := model.OrderStateModel{
				OrderID:        orderID,
				AlpacaOrderID:  ord.BrokerOrderID,
				OptionType:     ord.OptionType,
				Symbol:         ord.Symbol,
				Action:         ord.Side,
				Qty:            nullDec(ord.Qty),
				EntryPrice:     nullDec(ord.EntryPrice),
				CurrentPrice:   nullDec(ord.CurrentPrice),
				State:          state,
				Timestamp:      &ts,
			}
			// Realized profit lands on the terminal row only.
			if i == len(ord.States)-1 {
				row.RealizedProfit = nullDec(ord.RealizedProfit)
			}
			if err := db.Create(&row).Error; err != nil {
				return orderRows, 0, err
			}
			orderRows++
		}
	}

	signalRows := 0
	for _, sig := range fixture.Signals {
		row := model.SignalModel{
			Timestamp:  now.Add(-time.Duration(sig.AgeMinutes) * time.Minute),
			Symbol:     sig.Symbol,
			Close:      decimal.NewNullDecimal(decimal.NewFromFloat(sig.Close)),
			Indicators: datatypes.JSON(sig.Indicators),
		}
		if err := db.Create(&row).Error; err != nil {
			return orderRows, signalRows, err
		}
		signalRows++
	}
	return orderRows, signalRows, nil
}

func nullDec(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}

func f(v float64) *float64 { return &v }
