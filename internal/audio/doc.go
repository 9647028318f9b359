// Package audio plays sentence clips through the sound device using
// oto/v3. Clips are decoded from MP3 or WAV into 16-bit PCM at the device
// rate, optionally through a clip cache.
package audio
