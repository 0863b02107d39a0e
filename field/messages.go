package field

// Message keys. Spec.Messages overrides a template by key.
const (
	MsgRequired     = "required"
	MsgChoices      = "choices"
	MsgConvert      = "convert"
	MsgMinLength    = "min_length"
	MsgMaxLength    = "max_length"
	MsgRegex        = "regex"
	MsgNumber       = "number_coerce"
	MsgNumberMin    = "number_min"
	MsgNumberMax    = "number_max"
	MsgHashLength   = "hash_length"
	MsgHashHex      = "hash_hex"
	MsgBoolean      = "boolean"
	MsgParse        = "parse"
	MsgNegative     = "negative"
	MsgInvalidURL   = "invalid_url"
	MsgNotFound     = "not_found"
	MsgEmail        = "email"
	MsgIPv4         = "ipv4"
	MsgPointShape   = "point_size"
	MsgPointNumeric = "point_min"
	MsgPointType    = "point_type"
	MsgMinSize      = "min_size"
	MsgMinSizeOne   = "min_size_one"
	MsgMaxSize      = "max_size"
	MsgMaxSizeOne   = "max_size_one"
	MsgModel        = "model"
)

var baseMessages = map[string]string{
	MsgRequired: "This field is required.",
	MsgChoices:  "Value must be one of %v.",
}

var stringMessages = map[string]string{
	MsgConvert:   "Illegal data value",
	MsgMaxLength: "String value is too long",
	MsgMinLength: "String value is too short",
	MsgRegex:     "String value did not match validation regex",
}

var numberMessages = map[string]string{
	MsgNumber:    "Not %s",
	MsgNumberMin: "%s value should be greater than %v",
	MsgNumberMax: "%s value should be less than %v",
}

var decimalMessages = map[string]string{
	MsgNumber:    "Number failed to convert to a decimal",
	MsgNumberMin: "%s value should be greater than %v",
	MsgNumberMax: "%s value should be less than %v",
}

var hashMessages = map[string]string{
	MsgHashLength: "Hash value is wrong length.",
	MsgHashHex:    "Hash value is not hexadecimal.",
}

var booleanMessages = map[string]string{
	MsgBoolean: "Must be either true or false.",
}

var dateMessages = map[string]string{
	MsgParse: "Could not parse %v. Should be ISO8601 (YYYY-MM-DD).",
}

var dateTimeMessages = map[string]string{
	MsgParse:    "Could not parse %v. Should be ISO8601.",
	MsgNegative: "Timestamp must not be negative.",
}

var uuidMessages = map[string]string{
	MsgConvert: "Couldn't interpret value as UUID.",
}

var urlMessages = map[string]string{
	MsgInvalidURL: "Not a well formed URL.",
	MsgNotFound:   "URL does not exist.",
}

var emailMessages = map[string]string{
	MsgEmail: "Not a well formed email address.",
}

var ipv4Messages = map[string]string{
	MsgIPv4: "Invalid IPv4 address",
}

var geoMessages = map[string]string{
	MsgPointShape:   "Value must be a two-dimensional point",
	MsgPointNumeric: "Both values in point must be float or int",
	MsgPointType:    "GeoPoint can only accept lists, arrays, or maps",
}

var listMessages = map[string]string{
	MsgMinSize:    "Please provide at least %d items.",
	MsgMinSizeOne: "Please provide at least %d item.",
	MsgMaxSize:    "Please provide no more than %d items.",
	MsgMaxSizeOne: "Please provide no more than %d item.",
}

var dictMessages = map[string]string{
	MsgConvert: "Only dictionaries may be used in a DictType",
}
