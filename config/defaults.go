package config

// Default returns a configuration preloaded with the bilingual vocabulary and
// expansion rules for the Central Java government-services corpus. Callers
// load a YAML file over it; anything set there wins.
func Default() *Config {
	return &Config{
		RAG: RAGConfig{
			TopK:                 8,
			MinSimilarity:        0.4,
			CandidateCapMultiple: 3,
			MultiVariantPolicy:   "tiebreak",
		},
		Gate: GateConfig{
			Keywords:           defaultGateKeywords(),
			IrrelevantPatterns: defaultIrrelevantPatterns(),
			MatchThreshold:     1.0,
			EmbeddingFallback:  false,
			EmbeddingThreshold: 0.45,
			CanonicalQueries: []string{
				"Apa itu DPMPTSP?",
				"Bagaimana prosedur mengurus izin usaha di Jawa Tengah?",
				"Apa saja persyaratan penanaman modal?",
				"Bagaimana cara pendaftaran perizinan online?",
			},
		},
		Expansion: ExpansionConfig{
			Enable:      true,
			MaxVariants: 5,
			Rules:       defaultExpansionRules(),
		},
		Rerank: RerankConfig{
			Enable:   true,
			Provider: "keyword",
			TopN:     10,
			Floor:    0.3,
		},
		Confidence: ConfidenceConfig{
			High:            0.7,
			Medium:          0.5,
			MaxAttributions: 8,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			TimeoutMs: 15000,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.4,
			MaxTokens:   1500,
			TimeoutMs:   60000,
		},
		VectorDB: VectorDBConfig{
			Provider:    "memory",
			Namespace:   "default",
			DataDir:     "data",
			TablePrefix: "rag_chunks",
		},
		Prompt: PromptConfig{
			MaxExcerptChars:  1200,
			MaxContextTokens: 1600,
		},
		Splitter: SplitterConfig{
			ChunkSize:    800,
			ChunkOverlap: 100,
		},
		Cache: CacheConfig{
			MaxEntries: 500,
			TTLSeconds: 120,
		},
		HTTP: HTTPClientConfig{
			TimeoutMs: 10000,
		},
	}
}

func defaultGateKeywords() map[string]float64 {
	return map[string]float64{
		// agency and its services
		"dpmptsp":          2.0,
		"perizinan":        1.5,
		"izin":             1.0,
		"investasi":        1.0,
		"penanaman modal":  1.5,
		"pelayanan terpadu": 1.5,
		"satu pintu":       1.5,
		// region
		"jawa tengah":  1.5,
		"central java": 1.5,
		"jateng":       1.5,
		"provinsi":     0.5,
		// government vocabulary
		"gubernur":    1.0,
		"pemerintah":  1.0,
		"kebijakan":   0.5,
		"layanan":     0.5,
		"prosedur":    0.5,
		"pendaftaran": 0.5,
		"persyaratan": 0.5,
		"berkas":      0.5,
		"dokumen":     0.5,
		// business vocabulary
		"usaha":      0.5,
		"bisnis":     0.5,
		"perusahaan": 0.5,
		"umkm":       1.0,
		"startup":    0.5,
		// bilingual dataset topics
		"tenaga kerja": 1.0,
		"employment":   1.0,
		"penduduk":     1.0,
		"population":   1.0,
		"kesehatan":    1.0,
		"health":       1.0,
	}
}

func defaultIrrelevantPatterns() []string {
	return []string{
		`\bweather\b`, `\bcuaca\b`,
		`\bnews\b`,
		`\bprice\b`,
		`\bbitcoin\b`, `\bcrypto\b`,
		`\brecipe\b`, `\bresep\b`,
		`\bmovie\b`, `\bfilm\b`,
		`\bmusic\b`,
		`\bgame\b`,
		`\bsport\b`,
	}
}

func defaultExpansionRules() []ExpansionRule {
	return []ExpansionRule{
		{
			Trigger:  "dpmptsp",
			Suffixes: []string{"dinas penanaman modal pelayanan terpadu satu pintu"},
		},
		{
			Trigger:  "izin",
			Synonyms: []string{"perizinan", "permit"},
			Suffixes: []string{"license"},
		},
		{
			Trigger:  "investasi",
			Synonyms: []string{"penanaman modal", "investment"},
		},
		{
			Trigger:  "prosedur",
			Synonyms: []string{"tahapan", "procedure"},
			Suffixes: []string{"langkah cara"},
		},
		{
			Trigger:  "syarat",
			Synonyms: []string{"persyaratan", "requirement"},
			Suffixes: []string{"dokumen berkas"},
		},
		{
			Trigger:  "employment",
			Synonyms: []string{"job placement"},
			Suffixes: []string{"tenaga kerja"},
		},
		{
			Trigger:  "kerja",
			Synonyms: []string{"employment"},
		},
		{
			Trigger:  "population",
			Synonyms: []string{"demographic"},
			Suffixes: []string{"census"},
		},
		{
			Trigger:  "penduduk",
			Synonyms: []string{"population"},
		},
		{
			Trigger:  "health",
			Synonyms: []string{"medical"},
			Suffixes: []string{"healthcare statistics"},
		},
		{
			Trigger:  "kesehatan",
			Synonyms: []string{"health"},
		},
		{
			Trigger:  "central java",
			Synonyms: []string{"jawa tengah"},
		},
		{
			Trigger:  "jawa tengah",
			Synonyms: []string{"central java"},
		},
		{
			Trigger:  "jateng",
			Synonyms: []string{"jawa tengah", "central java"},
		},
	}
}
