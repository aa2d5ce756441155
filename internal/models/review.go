package models

import "time"

// OrderReview represents a single customer review of an order.
// Score is a 1-5 integer.
type OrderReview struct {
	ReviewID     string    `json:"review_id"`
	OrderID      string    `json:"order_id"`
	Score        int       `json:"review_score"`
	CreationDate time.Time `json:"review_creation_date"`
}

// OrderReviewSet wraps a slice of reviews with filtering/aggregation methods
type OrderReviewSet struct {
	Reviews []OrderReview
}

// NewOrderReviewSet creates a new OrderReviewSet from a slice
func NewOrderReviewSet(reviews []OrderReview) *OrderReviewSet {
	return &OrderReviewSet{Reviews: reviews}
}

// Len returns the number of reviews
func (rs *OrderReviewSet) Len() int {
	return len(rs.Reviews)
}

// FilterByCreationRange returns reviews created within the date range
// (inclusive). Reviews with a null creation date are excluded.
func (rs *OrderReviewSet) FilterByCreationRange(start, end time.Time) *OrderReviewSet {
	result := &OrderReviewSet{}
	startDay, endDay := DayBounds(start, end)
	for _, r := range rs.Reviews {
		if r.CreationDate.IsZero() {
			continue
		}
		if !r.CreationDate.Before(startDay) && !r.CreationDate.After(endDay) {
			result.Reviews = append(result.Reviews, r)
		}
	}
	return result
}

// MeanScore returns the mean review score. The caller must check Len first:
// the mean of an empty set is undefined and reported as a no-data condition,
// never computed here.
func (rs *OrderReviewSet) MeanScore() float64 {
	var sum int
	for _, r := range rs.Reviews {
		sum += r.Score
	}
	return float64(sum) / float64(len(rs.Reviews))
}

// ByOrderID groups reviews by order id, preserving record order within a group
func (rs *OrderReviewSet) ByOrderID() map[string][]OrderReview {
	byOrder := make(map[string][]OrderReview)
	for _, r := range rs.Reviews {
		byOrder[r.OrderID] = append(byOrder[r.OrderID], r)
	}
	return byOrder
}
