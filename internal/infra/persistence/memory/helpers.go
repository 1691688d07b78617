package memory

import "sort"

func sortByCreated(drugs []Drug) {
	sort.SliceStable(drugs, func(i, j int) bool {
		if !drugs[i].CreatedAt.Equal(drugs[j].CreatedAt) {
			return drugs[i].CreatedAt.Before(drugs[j].CreatedAt)
		}
		return drugs[i].ID < drugs[j].ID
	})
}
