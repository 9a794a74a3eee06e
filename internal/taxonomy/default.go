package taxonomy

func leaves(names ...string) []Definition {
	defs := make([]Definition, len(names))
	for i, n := range names {
		defs[i] = Definition{Name: n}
	}
	return defs
}

func sub(name string, leafNames ...string) Definition {
	return Definition{Name: name, Children: leaves(leafNames...)}
}

// DefaultDefinitions is the category table used when no taxonomy file exists.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "Moradia", Kind: KindExpense, Children: []Definition{
			sub("Aluguel", "Residencial", "Comercial"),
			sub("Condominio", "Taxa Ordinaria", "Taxa Extra"),
			sub("Conta de Energia"),
			sub("Conta de Agua"),
			sub("Internet"),
		}},
		{Name: "Transporte", Kind: KindExpense, Children: []Definition{
			sub("Combustivel", "Gasolina", "Etanol"),
			sub("Estacionamento"),
			sub("Manutencao Veiculo", "Revisao", "Pneus", "Funilaria"),
			sub("Transporte Publico"),
		}},
		{Name: "Alimentacao", Kind: KindExpense, Children: []Definition{
			sub("Supermercado"),
			sub("Restaurante", "Almoco", "Jantar"),
			sub("Delivery"),
			sub("Padaria"),
			sub("Cantina"),
			sub("Conveniencia"),
		}},
		{Name: "Saude", Kind: KindExpense, Children: []Definition{
			sub("Plano de Saude"),
			sub("Farmacia"),
			sub("Consultas", "Clinico Geral", "Especialista"),
		}},
		{Name: "Lazer", Kind: KindExpense, Children: []Definition{
			sub("Streaming"),
			sub("Cinema"),
			sub("Viagens", "Nacional", "Internacional"),
			sub("Esportes"),
		}},
		{Name: "Servicos", Kind: KindExpense, Children: []Definition{
			sub("Pagamentos Digitais"),
			sub("Assinaturas"),
			sub("Taxas"),
		}},
		{Name: "Salario", Kind: KindIncome, Children: []Definition{
			sub("Salario Fixo"),
			sub("13o Salario"),
			sub("Ferias"),
			sub("Bonus", "Bonus Anual", "PLR"),
			sub("Horas Extras"),
		}},
		{Name: "Freelancer", Kind: KindIncome, Children: []Definition{
			sub("Projetos Web", "Frontend", "Backend"),
			sub("Consultoria"),
			sub("Design"),
		}},
		{Name: "Investimentos", Kind: KindIncome, Children: []Definition{
			sub("Dividendos"),
			sub("Renda Fixa", "CDB", "Tesouro Direto"),
			sub("Fundos Imobiliarios"),
		}},
		{Name: "Transferencias", Kind: KindIncome, Children: []Definition{
			sub("PIX Recebido"),
			sub("TED Recebido"),
			sub("DOC Recebido"),
		}},
		{Name: "Outros", Kind: KindExpense, Children: []Definition{
			sub("Diversos"),
			sub("Sem Categoria"),
		}},
	}
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return MustNew(DefaultDefinitions())
}
