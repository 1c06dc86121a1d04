package tile

// Sprite is an opaque client-side rendering identifier. The engine
// never interprets a sprite's value beyond equality/serialization;
// biome-aesthetic tuning of what a sprite looks like is content, not
// design, and lives entirely on the client.
type Sprite string
