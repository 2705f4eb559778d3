package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"mybudget/internal/models"
)

// CategoryTotal is one spending bucket in a statistics response.
type CategoryTotal struct {
	Category     string  `json:"category"`
	Total        int64   `json:"total"`
	TotalDisplay string  `json:"total_display"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

// StatisticsResponse breaks an account's spending over a date range down by
// category. Need and Want rows bucket under their category label; every
// other kind buckets under its kind name.
type StatisticsResponse struct {
	Start      int64           `json:"start"`
	End        int64           `json:"end"`
	MoneyOut   int64           `json:"money_out"`
	Categories []CategoryTotal `json:"categories"`
}

// Statistics aggregates the account's outgoing transactions with
// transaction_date in [start, end) into per-category totals.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid start timestamp")
		return
	}
	end, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid end timestamp")
		return
	}

	transactions, err := h.coord.GetMonthlyTransactions(id, start, end)
	if err != nil {
		h.respondStoreError(w, "statistics", err)
		return
	}

	totals := map[string]*CategoryTotal{}
	var moneyOut int64
	for _, t := range transactions {
		if t.Amount >= 0 {
			continue
		}
		spent := -t.Amount
		moneyOut += spent

		label := t.Category()
		if label == "" {
			label = t.Kind.String()
		}
		bucket, ok := totals[label]
		if !ok {
			bucket = &CategoryTotal{Category: label}
			totals[label] = bucket
		}
		bucket.Total += spent
		bucket.Count++
	}

	categories := make([]CategoryTotal, 0, len(totals))
	for _, bucket := range totals {
		if moneyOut > 0 {
			bucket.Percentage = float64(bucket.Total) / float64(moneyOut) * 100
		}
		bucket.TotalDisplay = models.FormatCents(bucket.Total)
		categories = append(categories, *bucket)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Total != categories[j].Total {
			return categories[i].Total > categories[j].Total
		}
		return categories[i].Category < categories[j].Category
	})

	h.respondJSON(w, http.StatusOK, StatisticsResponse{
		Start:      start,
		End:        end,
		MoneyOut:   moneyOut,
		Categories: categories,
	})
}
