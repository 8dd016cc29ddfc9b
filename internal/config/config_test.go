package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		VectorStore: VectorStoreConfig{
			Addrs: []string{"localhost:6379"},
		},
		Bills: BillsConfig{
			DSN: "postgres://billboard:pw@localhost:5432/bills?sslmode=disable",
		},
		Embedding: EmbeddingConfig{
			BaseURL: "http://localhost:8081/v1",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingVectorStoreAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.VectorStore.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing vectorstore addrs")
	}
}

func TestValidate_MissingBillsDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Bills.DSN = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing bills dsn")
	}
}

func TestValidate_MissingEmbeddingBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.BaseURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing embedding base url")
	}
}

func TestValidate_InvalidAlgorithm(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Algorithm = "ivf"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid index algorithm")
	}

	expected := `index.algorithm must be "hnsw" or "flat", got "ivf"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.VectorStore.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.VectorStore.ReadinessTimeout)
	}
	if cfg.Embedding.Model != "sentence-transformers/all-MiniLM-L6-v2" {
		t.Errorf("unexpected default model %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected Dimensions=384, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Recommend.InterestWeight != 0.8 || cfg.Recommend.DemographicWeight != 0.2 {
		t.Errorf("unexpected fusion weights %f/%f",
			cfg.Recommend.InterestWeight, cfg.Recommend.DemographicWeight)
	}
	if cfg.Recommend.RRFK != 60 {
		t.Errorf("expected RRFK=60, got %d", cfg.Recommend.RRFK)
	}
	if cfg.Recommend.RRFInterestWeight != 0.8 || cfg.Recommend.RRFDemographicWeight != 0.2 {
		t.Errorf("unexpected rrf weights %f/%f",
			cfg.Recommend.RRFInterestWeight, cfg.Recommend.RRFDemographicWeight)
	}
	if cfg.Index.Algorithm != "hnsw" {
		t.Errorf("expected Algorithm=hnsw, got %q", cfg.Index.Algorithm)
	}
	if cfg.Index.DistanceMetric != "cosine" {
		t.Errorf("expected DistanceMetric=cosine, got %q", cfg.Index.DistanceMetric)
	}
	if cfg.Index.BatchSize != 64 {
		t.Errorf("expected BatchSize=64, got %d", cfg.Index.BatchSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:        HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		VectorStore: VectorStoreConfig{ReadinessTimeout: 15},
		Embedding:   EmbeddingConfig{Model: "custom-model", Dimensions: 768},
		Recommend:   RecommendConfig{InterestWeight: 0.5, DemographicWeight: 0.5, RRFK: 10},
		Index:       IndexConfig{Algorithm: "flat", BatchSize: 32},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Embedding.Model != "custom-model" {
		t.Errorf("expected custom model, got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("expected Dimensions=768, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Recommend.InterestWeight != 0.5 {
		t.Errorf("expected InterestWeight=0.5, got %f", cfg.Recommend.InterestWeight)
	}
	if cfg.Recommend.RRFK != 10 {
		t.Errorf("expected RRFK=10, got %d", cfg.Recommend.RRFK)
	}
	if cfg.Index.Algorithm != "flat" {
		t.Errorf("expected Algorithm=flat, got %q", cfg.Index.Algorithm)
	}
	if cfg.Index.BatchSize != 32 {
		t.Errorf("expected BatchSize=32, got %d", cfg.Index.BatchSize)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BILLBOARD_TEST_PW", "s3cret")

	in := []byte("password: ${BILLBOARD_TEST_PW}\nport: ${BILLBOARD_TEST_PORT:-8080}\n")
	out := string(expandEnvVars(in))

	want := "password: s3cret\nport: 8080\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
