package discogs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// flexPrice Discogs的价格字段形状不稳定：数字、带逗号小数的字符串、
// 或者 {"currency": "...", "value": ...} 对象都见过
type flexPrice struct {
	val *float64
}

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	p.val = toFloat(data)
	return nil
}

func toFloat(data []byte) *float64 {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		return &num
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.ReplaceAll(str, ",", ".")
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return &f
		}
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil {
		for _, k := range []string{"value", "amount", "price"} {
			if raw, ok := obj[k]; ok {
				return toFloat(raw)
			}
		}
	}
	return nil
}

type statsResponse struct {
	LowestPrice flexPrice `json:"lowest_price"`
	MedianPrice flexPrice `json:"median_price"`
	Median      flexPrice `json:"median"`
	Highest     flexPrice `json:"highest_price"`
}

// FetchPriceStats 获取marketplace价格统计。
// stats端点经常只有lowest_price，缺的字段用price_suggestions近似补齐。
// 价格拿不到不算错误，返回空的PriceStats。
func (c *Client) FetchPriceStats(releaseID int64) model.PriceStats {
	stats := model.PriceStats{Currency: strings.ToUpper(c.Currency)}

	var sr statsResponse
	url := fmt.Sprintf("%s/marketplace/stats/%d?curr_abbr=%s", c.BaseURL, releaseID, stats.Currency)
	if err := c.getJSON(url, &sr); err != nil {
		logger.Warn("marketplace stats获取失败", logger.Int64("releaseId", releaseID), logger.ErrorField(err))
	} else {
		stats.Min = sr.LowestPrice.val
		stats.Median = firstPrice(sr.MedianPrice.val, sr.Median.val)
		stats.Max = sr.Highest.val
	}

	if stats.Median == nil || stats.Max == nil {
		sMin, sMed, sMax := c.fetchPriceSuggestions(releaseID)
		// 只补缺的
		if stats.Min == nil {
			stats.Min = sMin
		}
		if stats.Median == nil {
			stats.Median = sMed
		}
		if stats.Max == nil {
			stats.Max = sMax
		}
	}

	return stats
}

// fetchPriceSuggestions 按品相的建议价近似出min/median/max。
// 和真实成交历史不完全一致，但stats缺数据时够用。
func (c *Client) fetchPriceSuggestions(releaseID int64) (*float64, *float64, *float64) {
	url := fmt.Sprintf("%s/marketplace/price_suggestions/%d?curr_abbr=%s", c.BaseURL, releaseID, strings.ToUpper(c.Currency))

	var data map[string]flexPrice
	if err := c.getJSON(url, &data); err != nil {
		logger.Warn("price suggestions获取失败", logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		return nil, nil, nil
	}

	var values []float64
	for _, p := range data {
		if p.val != nil {
			values = append(values, *p.val)
		}
	}
	if len(values) == 0 {
		return nil, nil, nil
	}

	sort.Float64s(values)
	pmin := values[0]
	pmax := values[len(values)-1]
	pmed := Median(values)
	return &pmin, pmed, &pmax
}

// Median 有序或无序都行，偶数个取中间两个的平均
func Median(nums []float64) *float64 {
	if len(nums) == 0 {
		return nil
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 1 {
		m = sorted[mid]
	} else {
		m = (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return &m
}

func firstPrice(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
