package excel

const defaultSheet = "Sheet1"

// sourceFormat identifies how an upload payload was recognised
type sourceFormat string

const (
	formatXLSX      sourceFormat = "xlsx"
	formatCSV       sourceFormat = "csv"
	formatLegacyXLS sourceFormat = "xls"
	formatUnknown   sourceFormat = "unknown"
)

// builtinDateFormats lists the built-in number format IDs that render as dates or times
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}
