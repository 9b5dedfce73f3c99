package utils

// BatchStrings splits items into consecutive batches of at most batchSize.
// A non-positive batchSize returns a single batch with all items.
func BatchStrings(items []string, batchSize int) [][]string {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		return [][]string{items}
	}

	batches := make([][]string, 0, (len(items)+batchSize-1)/batchSize)
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
