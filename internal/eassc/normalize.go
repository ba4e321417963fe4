package eassc

// Normalize merges observations into one Record per (company, product, year,
// month). A later observation overwrites the field of its data type; figures
// are never summed. Records keep the order in which their key first appeared.
func Normalize(observations []Observation) []Record {
	index := make(map[Key]int, len(observations))
	records := make([]Record, 0, len(observations))
	for _, o := range observations {
		k := Key{Company: o.Company, Product: o.Product, Year: o.Year, Month: o.Month}
		i, ok := index[k]
		if !ok {
			records = append(records, Record{Company: o.Company, Product: o.Product, Year: o.Year, Month: o.Month})
			i = len(records) - 1
			index[k] = i
		}
		if o.DataType == Stocks {
			records[i].Stocks = o.Value
		} else {
			records[i].Sales = o.Value
		}
	}
	return records
}
