package i18n

// Builtin returns the tables shipped with the module. English needs no table.
func Builtin() Dict {
	return Dict{"pt-BR": ptBR()}
}

func ptBR() map[string]string {
	return map[string]string{
		"%s is an illegal field.":                                        "%s é um campo inválido.",
		"This field is required.":                                        "Este campo é obrigatório.",
		"Value must be one of %v.":                                       "Valor deve ser um dos %v.",
		"Invalid IPv4 address":                                           "Endereço IPv4 inválido",
		"Couldn't interpret value as string.":                            "Não foi possível interpretar o valor como string",
		"Illegal data value":                                             "Valor para dados inválido",
		"String value is too long":                                       "Texto é muito grande",
		"String value is too short":                                      "Texto é muito pequeno",
		"String value did not match validation regex":                    "Valor do texto não corresponde com a expressão regular",
		"Not a well formed URL.":                                         "URL inválida.",
		"URL does not exist.":                                            "URL não existe.",
		"Not a well formed email address.":                               "Endereço de e-mail inválido.",
		"Not %s":                                                         "Não %s",
		"Value is not %s":                                                "Valor não é %s",
		"%s value should be greater than %v":                             "%s deve ser maior que %v",
		"%s value should be less than %v":                                "%s deve ser menor que %v",
		"Hash value is wrong length.":                                    "Hash tem o tamanho errado.",
		"Hash value is not hexadecimal.":                                 "Hash não é hexadecimal.",
		"Must be either true or false.":                                  "Deve ser 'true' or 'false'",
		"Could not parse %v. Should be ISO8601 (YYYY-MM-DD).":            "Campo %v não está no formato ISO8601 (YYYY-MM-DD).",
		"Could not parse %v. Should be ISO8601.":                         "Campo %v não está no formato ISO8601.",
		"Please use a mapping for this field or %s instance instead of %T.": "Por favor use um mapa para este campo ou %s instância ao invés de %T.",
		"Please provide at least %d item.":                               "Por favor forneca no mínimo %d item.",
		"Please provide at least %d items.":                              "Por favor forneça no mínimo %d itens.",
		"Please provide no more than %d item.":                           "Por favor não forneça mais de %d item.",
		"Please provide no more than %d items.":                          "Por favor não forneça mais de %d itens.",
		"Only dictionaries may be used in a DictType":                    "Somente dicionários (dict) podem ser utilizados em um DictType",
		"Both values in point must be float or int":                      "Ambos valores no ponto devem ser float ou inteiro",
		"GeoPoint can only accept lists, arrays, or maps":                "GeoPoint somente aceita listas, arrays, ou mapas",
		"Value must be a two-dimensional point":                          "Valor deve ser um ponto bidimensional",
		"Timestamp must not be negative.":                                "Timestamp não pode ser negativo.",
		"Couldn't interpret value as UUID.":                              "Não foi possível interpretar o valor como UUID.",
		"Number failed to convert to a decimal":                          "Número não pôde ser convertido para decimal",
	}
}
