package weather

// Response is the One Call 3.0 payload. Only the fields the report uses are
// guaranteed to be present; minutely data and alerts are not decoded.
type Response struct {
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	Timezone       string   `json:"timezone"`
	TimezoneOffset int64    `json:"timezone_offset"`
	Current        Current  `json:"current"`
	Hourly         []Hourly `json:"hourly"`
	Daily          []Daily  `json:"daily"`
}

type Current struct {
	Dt         int64       `json:"dt"`
	Sunrise    int64       `json:"sunrise"`
	Sunset     int64       `json:"sunset"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Pressure   int         `json:"pressure"`
	Humidity   int         `json:"humidity"`
	DewPoint   float64     `json:"dew_point"`
	UVI        float64     `json:"uvi"`
	Clouds     int         `json:"clouds"`
	Visibility int         `json:"visibility"`
	WindSpeed  float64     `json:"wind_speed"`
	WindDeg    int         `json:"wind_deg"`
	Weather    []Condition `json:"weather"`
}

type Hourly struct {
	Dt         int64       `json:"dt"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Pressure   int         `json:"pressure"`
	Humidity   int         `json:"humidity"`
	DewPoint   float64     `json:"dew_point"`
	UVI        float64     `json:"uvi"`
	Clouds     int         `json:"clouds"`
	Visibility int         `json:"visibility"`
	WindSpeed  float64     `json:"wind_speed"`
	WindDeg    int         `json:"wind_deg"`
	WindGust   *float64    `json:"wind_gust,omitempty"`
	Weather    []Condition `json:"weather"`
	Pop        float64     `json:"pop"`
}

type Daily struct {
	Dt        int64          `json:"dt"`
	Sunrise   int64          `json:"sunrise"`
	Sunset    int64          `json:"sunset"`
	Moonrise  int64          `json:"moonrise"`
	Moonset   int64          `json:"moonset"`
	MoonPhase float64        `json:"moon_phase"`
	Summary   string         `json:"summary"`
	Temp      DailyTemp      `json:"temp"`
	FeelsLike DailyFeelsLike `json:"feels_like"`
	Pressure  int            `json:"pressure"`
	Humidity  int            `json:"humidity"`
	DewPoint  float64        `json:"dew_point"`
	WindSpeed float64        `json:"wind_speed"`
	WindDeg   int            `json:"wind_deg"`
	WindGust  *float64       `json:"wind_gust,omitempty"`
	Weather   []Condition    `json:"weather"`
	Clouds    int            `json:"clouds"`
	Pop       float64        `json:"pop"`
	Rain      *float64       `json:"rain,omitempty"`
	UVI       float64        `json:"uvi"`
}

type DailyTemp struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

type DailyFeelsLike struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

// Condition is one weather condition code with its text.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func describe(c []Condition) string {
	if len(c) == 0 || c[0].Description == "" {
		return "No description"
	}
	return c[0].Description
}
