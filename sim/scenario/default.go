package scenario

// Default returns the built-in scenario: a two-tier deployment with four
// application profiles and fourteen edge places, sized so the default link
// models stay stable at a few hundred devices. It is what the CLI runs when
// no scenario file is given, and what tests use as a baseline.
func Default() *Spec {
	places := make([]Place, 14)
	for i := range places {
		places[i] = Place{
			WlanID:         i,
			Attractiveness: i % 3,
			X:              float64(i%7) * 200,
			Y:              float64(i/7) * 200,
		}
	}
	return &Spec{
		Name: "default",
		Apps: []App{
			{
				Name:            "AUGMENTED_REALITY",
				UsagePercentage: 30,
				CloudSelectProb: 20,
				PoissonMean:     2,
				ActivePeriod:    40,
				IdlePeriod:      20,
				UploadKB:        1500,
				DownloadKB:      25,
				TaskLength:      9000,
				VMUtilizationOn: UtilizationRow{Edge: 6, Cloud: 0.6, Local: 20},
			},
			{
				Name:            "HEALTH_APP",
				UsagePercentage: 20,
				CloudSelectProb: 20,
				PoissonMean:     3,
				ActivePeriod:    45,
				IdlePeriod:      90,
				UploadKB:        20,
				DownloadKB:      1250,
				TaskLength:      3000,
				VMUtilizationOn: UtilizationRow{Edge: 2, Cloud: 0.2, Local: 10},
			},
			{
				Name:            "HEAVY_COMP_APP",
				UsagePercentage: 20,
				CloudSelectProb: 40,
				PoissonMean:     20,
				ActivePeriod:    60,
				IdlePeriod:      120,
				UploadKB:        2500,
				DownloadKB:      200,
				TaskLength:      45000,
				VMUtilizationOn: UtilizationRow{Edge: 8, Cloud: 0.8, Local: 40},
			},
			{
				Name:            "INFOTAINMENT_APP",
				UsagePercentage: 30,
				CloudSelectProb: 30,
				PoissonMean:     7,
				ActivePeriod:    30,
				IdlePeriod:      45,
				UploadKB:        25,
				DownloadKB:      1000,
				TaskLength:      15000,
				VMUtilizationOn: UtilizationRow{Edge: 4, Cloud: 0.4, Local: 30},
			},
		},
		Places: places,
		Network: Network{
			Model:          "averaged",
			Queue:          "mm1",
			WlanBandwidth:  200000,
			WanBandwidth:   50000,
			WanPropagation: 0.15,
		},
		Compute: Compute{
			EdgeVMsPerPlace: 2,
			EdgeVMMips:      10000,
			CloudVMs:        8,
			CloudVMMips:     75000,
			LocalVMMips:     2000,
		},
		Mobility: Mobility{
			Model:      "nomadic",
			DwellMeans: []float64{500, 300, 120},
		},
		Simulation: Simulation{
			Architecture: TwoTier,
			Horizon:      1800,
			WarmUp:       10,
			Progress:     180,
		},
	}
}
