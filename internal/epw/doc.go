// Package epw parses EnergyPlus Weather (EPW) files into calendar-normalized
// time series.
//
// # File Format
//
// EPW is a fixed-layout, comma-separated text format for hourly meteorological
// data used in building-energy simulation. A file starts with 8 header lines;
// the first is the LOCATION line:
//
//	LOCATION,<city>,<state/province>,<country>,<data type>,<WMO>,<latitude>,<longitude>,<timezone>,<altitude>
//
// Latitude/longitude are degrees (north/east positive), timezone is hours
// relative to GMT (west negative), altitude is metres. The remaining 7 header
// lines (design conditions, typical periods, ground temperatures, holidays,
// comments, data periods) carry no information this package needs.
//
// Data rows follow, nominally 35 comma-separated fields each. Real files are
// frequently short a few trailing columns; missing cells degrade to missing
// values rather than rejecting the row. The fields this package extracts:
//
//	EPW field  raw column  name
//	1-5        0-4         year, month, day, hour, minute
//	7          6           dry bulb temperature [C]
//	8          7           dew point temperature [C]
//	9          8           relative humidity [%]
//	10         9           atmospheric pressure [Pa]
//	13         12          horizontal infrared radiation [Wh/m2]
//	14         13          global horizontal radiation [Wh/m2]
//	15         14          direct normal radiation [Wh/m2]
//	16         15          diffuse horizontal radiation [Wh/m2]
//	17         16          global horizontal illuminance [lux]
//	18         17          direct normal illuminance [lux]
//	19         18          diffuse horizontal illuminance [lux]
//	21         20          wind direction [deg]
//	22         21          wind speed [m/s]
//	23         22          total sky cover [tenths]
//
// # Time Conventions
//
// EPW encodes the hour as 1-24, where hour 24 is the last hour of the day,
// and permits minute=60 as a rollover marker meaning "the next hour". Both
// are remapped to standard 0-23/0-59 clock values by [NormalizeTimes], with
// day, month, and year advanced as needed (Dec 31 hour 24 minute 60 rolls
// into Jan 1 of the next year). Timestamps are naive Local Standard Time;
// the timezone offset in the header is reported but never applied.
//
// After normalization, every timestamp is rewritten to a single reference
// year by [UnifyYear] so that multi-year or year-less data align on one
// time axis.
//
// # Diagnostics
//
// Every stage reports recoverable problems through a [Diagnostics] collector
// instead of failing: a corrupt header field, a missing column, or a handful
// of bad rows each produce one leveled message and the parse continues. Only
// conditions that leave zero usable rows return one of the package sentinel
// errors ([ErrEmptyDataset], [ErrInsufficientColumns], [ErrNoValidTimeRows],
// [ErrNoValidCalendarRows]).
package epw
