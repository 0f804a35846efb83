package cmd

import "github.com/verdantcart/hybridsearch/internal/catalog"

// sampleProducts is a small built-in catalog so the server works out of
// the box without a database.
func sampleProducts() []*catalog.Product {
	return []*catalog.Product{
		{
			ID:            1,
			Name:          "Organic Turmeric Powder",
			Slug:          "organic-turmeric-powder",
			Description:   "Single-origin golden turmeric, stone ground for cooking and wellness",
			Brand:         "Verdant Farms",
			Price:         8.50,
			Categories:    []string{"Spices", "Ayurveda"},
			Tags:          []string{"organic", "anti-inflammatory"},
			Benefits:      []string{"immunity", "digestion"},
			AverageRating: 4.8,
			ReviewCount:   214,
			InStock:       true,
			Featured:      true,
		},
		{
			ID:            2,
			Name:          "Brown Basmati Rice",
			Slug:          "brown-basmati-rice",
			Description:   "Aged whole grain basmati rice with a nutty aroma",
			Brand:         "Verdant Farms",
			Price:         12.00,
			Categories:    []string{"Grains"},
			Tags:          []string{"organic", "whole grain"},
			AverageRating: 4.5,
			ReviewCount:   98,
			InStock:       true,
		},
		{
			ID:            3,
			Name:          "Raw Forest Honey",
			Slug:          "raw-forest-honey",
			Description:   "Unprocessed wild honey harvested from forest apiaries",
			Brand:         "Hillside Apiary",
			Price:         18.75,
			Categories:    []string{"Sweeteners", "Wellness"},
			Tags:          []string{"raw", "unfiltered"},
			Benefits:      []string{"immunity"},
			AverageRating: 4.9,
			ReviewCount:   301,
			InStock:       true,
			Featured:      true,
		},
		{
			ID:            4,
			Name:          "Cold-Pressed Coconut Oil",
			Slug:          "cold-pressed-coconut-oil",
			Description:   "Virgin coconut oil extracted without heat",
			Brand:         "Coastal Naturals",
			Price:         14.25,
			Categories:    []string{"Oils", "Wellness"},
			Tags:          []string{"cold-pressed", "virgin"},
			Benefits:      []string{"skin", "cooking"},
			AverageRating: 4.6,
			ReviewCount:   152,
			InStock:       true,
		},
		{
			ID:            5,
			Name:          "Ashwagandha Root Capsules",
			Slug:          "ashwagandha-root-capsules",
			Description:   "Traditional ashwagandha root extract for stress support",
			Brand:         "Verdant Botanics",
			Price:         24.00,
			Categories:    []string{"Supplements", "Ayurveda"},
			Tags:          []string{"adaptogen"},
			Benefits:      []string{"stress", "sleep"},
			AverageRating: 4.4,
			ReviewCount:   87,
			InStock:       true,
		},
		{
			ID:            6,
			Name:          "Foxtail Millet",
			Slug:          "foxtail-millet",
			Description:   "Heritage foxtail millet, naturally gluten free",
			Brand:         "Verdant Farms",
			Price:         9.50,
			Categories:    []string{"Grains", "Millets"},
			Tags:          []string{"gluten-free", "ancient grain"},
			AverageRating: 4.3,
			ReviewCount:   45,
			InStock:       true,
		},
		{
			ID:            7,
			Name:          "Ceylon Cinnamon Sticks",
			Slug:          "ceylon-cinnamon-sticks",
			Description:   "True cinnamon quills with a delicate sweet flavor",
			Brand:         "Spice Route Co",
			Price:         11.00,
			Categories:    []string{"Spices"},
			Tags:          []string{"true cinnamon"},
			AverageRating: 4.7,
			ReviewCount:   120,
			InStock:       false,
		},
		{
			ID:            8,
			Name:          "Herbal Immunity Tea",
			Slug:          "herbal-immunity-tea",
			Description:   "Tulsi, ginger, and turmeric blend for daily immunity",
			Brand:         "Verdant Botanics",
			Price:         7.25,
			Categories:    []string{"Tea", "Wellness"},
			Tags:          []string{"caffeine-free"},
			Benefits:      []string{"immunity"},
			AverageRating: 4.2,
			ReviewCount:   63,
			InStock:       true,
		},
	}
}
