package service

import "golden-samovar/internal/xpkg/logger"

func testLogger() logger.Logger {
	return logger.Nop()
}
